package handlers

import (
	"errors"
	"net/http"

	"boom-blog/internal/api"
	"boom-blog/internal/engine"
	"boom-blog/internal/middleware"
	"boom-blog/internal/policy"
	"boom-blog/internal/storage"
	"boom-blog/internal/utils"
)

func (s *Server) HandleListPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pagination(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		posts, err := s.Engine.ListPosts(r.Context(), middleware.IdentityFromContext(r.Context()), page)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, posts)
	}
}

func (s *Server) HandleCreatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req api.PostRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		post, err := s.Engine.CreatePost(r.Context(), middleware.IdentityFromContext(r.Context()), engine.PostInput{
			Title:    req.Title,
			Content:  req.Content,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, post)
	}
}

// HandleGetPost returns the post with the caller's like/view state and records a view.
func (s *Server) HandleGetPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		post, err := s.Engine.GetPost(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, post)
	}
}

func (s *Server) HandleUpdatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var req api.PostRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
		post, err := s.Engine.UpdatePost(r.Context(), middleware.IdentityFromContext(r.Context()), id, engine.PostInput{
			Title:    req.Title,
			Content:  req.Content,
			ImageURL: req.ImageURL,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, post)
	}
}

func (s *Server) HandleDeletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Engine.DeletePost(r.Context(), middleware.IdentityFromContext(r.Context()), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleToggleLike handles POST /posts/{id}/like
func (s *Server) HandleToggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "id", "Post")
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		result, err := s.Engine.ToggleLike(r.Context(), middleware.IdentityFromContext(r.Context()), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleUploadImage stores a multipart "image" field and returns its URL for use as image_url.
func (s *Server) HandleUploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := policy.CreatePost(middleware.IdentityFromContext(r.Context())); err != nil {
			s.writeError(w, r, err)
			return
		}

		// Leave headroom for the multipart envelope around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+1<<20)
		if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				s.writeError(w, r, utils.NewInvalidInputError("image is larger than 5MB"))
				return
			}
			s.writeError(w, r, utils.NewInvalidInputError("invalid multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, _, err := r.FormFile("image")
		if err != nil {
			s.writeError(w, r, utils.NewInvalidInputError("image file is required"))
			return
		}
		defer file.Close()

		url, err := s.Images.Save(r.Context(), file)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, api.ImageUploadResponse{ImageURL: url})
	}
}
