package handlers

import (
	"net/http"

	"boom-blog/internal/api"
	"boom-blog/internal/utils"
)

// HandleLoginOrRegister signs in or creates the account and sets the refresh cookie.
func (s *Server) HandleLoginOrRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.LoginRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := s.Engine.LoginOrRegister(r.Context(), req.Email, req.Password)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		s.setRefreshCookie(w, result.Tokens.RefreshToken, result.Tokens.RefreshTokenTTL)
		api.WriteJSON(w, http.StatusOK, api.AuthResponse{
			User:        result.User,
			AccessToken: result.Tokens.AccessToken,
			TokenType:   api.TokenTypeBearer,
		})
	}
}

// HandleRefresh rotates the token pair using the refresh cookie.
func (s *Server) HandleRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(refreshCookieName)
		if err != nil || cookie.Value == "" {
			s.writeError(w, r, utils.NewUnauthorizedError("Refresh token missing"))
			return
		}

		_, tokens, err := s.Engine.Refresh(r.Context(), cookie.Value)
		if err != nil {
			if utils.IsErrorCode(err, utils.ErrInvalidToken) || utils.IsErrorCode(err, utils.ErrUnauthorized) {
				s.clearRefreshCookie(w)
			}
			s.writeError(w, r, err)
			return
		}

		s.setRefreshCookie(w, tokens.RefreshToken, tokens.RefreshTokenTTL)
		api.WriteJSON(w, http.StatusOK, api.RefreshResponse{
			AccessToken: tokens.AccessToken,
			TokenType:   api.TokenTypeBearer,
		})
	}
}

// HandleLogout clears the refresh cookie. Issued tokens stay valid until they expire.
func (s *Server) HandleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearRefreshCookie(w)
		w.WriteHeader(http.StatusNoContent)
	}
}
