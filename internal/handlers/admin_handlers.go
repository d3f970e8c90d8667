package handlers

import (
	"net/http"

	"boom-blog/internal/api"
	"boom-blog/internal/middleware"
)

func (s *Server) HandleAdminListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		users, err := s.Engine.AdminListUsers(r.Context(), middleware.IdentityFromContext(r.Context()), page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, users)
	}
}

func (s *Server) HandleAdminListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		posts, err := s.Engine.AdminListPosts(r.Context(), middleware.IdentityFromContext(r.Context()), page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, posts)
	}
}

// HandleAdminListComments accepts an optional approved=true|false filter.
func (s *Server) HandleAdminListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		approved, err := queryBool(r, "approved")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		comments, err := s.Engine.AdminListComments(r.Context(), middleware.IdentityFromContext(r.Context()), approved, page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comments)
	}
}

func (s *Server) HandleToggleUserActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "User")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		user, err := s.Engine.ToggleUserActive(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, user)
	}
}

func (s *Server) HandleTogglePostActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		post, err := s.Engine.TogglePostActive(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, post)
	}
}

func (s *Server) HandleApproveComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Comment")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		comment, err := s.Engine.ApproveComment(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comment)
	}
}

func (s *Server) HandleAdminDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Comment")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Engine.AdminDeleteComment(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
