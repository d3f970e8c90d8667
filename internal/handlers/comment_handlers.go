package handlers

import (
	"net/http"

	"boom-blog/internal/api"
	"boom-blog/internal/middleware"
)

// HandleListComments handles GET /comments/{post_id}
func (s *Server) HandleListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "post_id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		comments, err := s.Engine.ListPostComments(r.Context(), middleware.IdentityFromContext(r.Context()), postID, page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comments)
	}
}

// HandleCreateComment handles POST /comments/{post_id}
func (s *Server) HandleCreateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "post_id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req api.CommentRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		comment, err := s.Engine.CreateComment(r.Context(), middleware.IdentityFromContext(r.Context()), postID, req.Content)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, comment)
	}
}

// HandleUpdateComment handles PUT /comments/{post_id}/{comment_id}
func (s *Server) HandleUpdateComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "post_id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		commentID, err := pathUUID(r, "comment_id", "Comment")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req api.CommentRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		comment, err := s.Engine.UpdateComment(r.Context(), middleware.IdentityFromContext(r.Context()), postID, commentID, req.Content)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, comment)
	}
}

// HandleDeleteComment handles DELETE /comments/{post_id}/{comment_id}
func (s *Server) HandleDeleteComment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := pathUUID(r, "post_id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		commentID, err := pathUUID(r, "comment_id", "Comment")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Engine.DeleteComment(r.Context(), middleware.IdentityFromContext(r.Context()), postID, commentID); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
