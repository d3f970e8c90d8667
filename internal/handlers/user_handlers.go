package handlers

import (
	"net/http"

	"boom-blog/internal/api"
	"boom-blog/internal/engine"
	"boom-blog/internal/middleware"
)

// HandleListUsers is the admin-only user listing.
func (s *Server) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		users, err := s.Engine.ListUsers(r.Context(), middleware.IdentityFromContext(r.Context()), page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, users)
	}
}

func (s *Server) HandleGetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.Engine.Me(middleware.IdentityFromContext(r.Context()))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, user)
	}
}

func (s *Server) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "User")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		user, err := s.Engine.GetUser(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, user)
	}
}

func (s *Server) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "User")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req api.UpdateUserRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		user, err := s.Engine.UpdateUser(r.Context(), middleware.IdentityFromContext(r.Context()), id, engine.UserChanges{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			IsActive: req.IsActive,
			IsAdmin:  req.IsAdmin,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, user)
	}
}

// HandleDeleteUser deactivates the account rather than removing it.
func (s *Server) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "User")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Engine.DeactivateUser(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
