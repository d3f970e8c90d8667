package handlers

import (
	"net/http"

	"boom-blog/internal/middleware"
	"boom-blog/internal/storage"
)

// RouteOptions toggles the optional surfaces mounted next to the API.
type RouteOptions struct {
	MetricsEnabled bool
	UploadDir      string
	AllowedOrigins []string
}

// Routes builds the full handler tree: recovery, request logging and CORS around the mux.
func (s *Server) Routes(opts RouteOptions) http.Handler {
	mux := http.NewServeMux()
	required := s.Auth.ApplyJWTMiddleware
	optional := s.Auth.ApplyOptionalJWTMiddleware

	mux.HandleFunc("GET /health", s.HandleHealth())

	// Auth
	mux.HandleFunc("POST /auth/login_or_register", s.HandleLoginOrRegister())
	mux.HandleFunc("POST /auth/refresh", s.HandleRefresh())
	mux.HandleFunc("POST /auth/logout", s.HandleLogout())

	// Users
	mux.HandleFunc("GET /users", required(s.HandleListUsers()))
	mux.HandleFunc("GET /users/me", required(s.HandleGetMe()))
	mux.HandleFunc("GET /users/{id}", required(s.HandleGetUser()))
	mux.HandleFunc("PUT /users/{id}", required(s.HandleUpdateUser()))
	mux.HandleFunc("DELETE /users/{id}", required(s.HandleDeleteUser()))

	// Posts
	mux.HandleFunc("GET /posts", optional(s.HandleListPosts()))
	mux.HandleFunc("POST /posts", required(s.HandleCreatePost()))
	mux.HandleFunc("POST /posts/images", required(s.HandleUploadImage()))
	mux.HandleFunc("GET /posts/{id}", optional(s.HandleGetPost()))
	mux.HandleFunc("PUT /posts/{id}", required(s.HandleUpdatePost()))
	mux.HandleFunc("DELETE /posts/{id}", required(s.HandleDeletePost()))
	mux.HandleFunc("POST /posts/{id}/like", required(s.HandleToggleLike()))

	// Comments
	mux.HandleFunc("GET /comments/{post_id}", optional(s.HandleListComments()))
	mux.HandleFunc("POST /comments/{post_id}", required(s.HandleCreateComment()))
	mux.HandleFunc("PUT /comments/{post_id}/{comment_id}", required(s.HandleUpdateComment()))
	mux.HandleFunc("DELETE /comments/{post_id}/{comment_id}", required(s.HandleDeleteComment()))

	// Moderation
	mux.HandleFunc("GET /admin/users", required(s.HandleAdminListUsers()))
	mux.HandleFunc("GET /admin/posts", required(s.HandleAdminListPosts()))
	mux.HandleFunc("GET /admin/comments", required(s.HandleAdminListComments()))
	mux.HandleFunc("PUT /admin/users/{id}/toggle-active", required(s.HandleToggleUserActive()))
	mux.HandleFunc("PUT /admin/posts/{id}/toggle-active", required(s.HandleTogglePostActive()))
	mux.HandleFunc("PUT /admin/comments/{id}/approve", required(s.HandleApproveComment()))
	mux.HandleFunc("DELETE /admin/comments/{id}", required(s.HandleAdminDeleteComment()))

	if opts.MetricsEnabled && s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics.Handler())
	}
	if opts.UploadDir != "" {
		mux.Handle("GET "+storage.URLPrefix, http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(opts.UploadDir))))
	}

	var handler http.Handler = mux
	handler = middleware.CORSMiddleware(middleware.DefaultCORSConfig(opts.AllowedOrigins))(handler)
	handler = middleware.RequestLogger(s.Log, s.Metrics)(handler)
	handler = middleware.Recovery(s.Log)(handler)
	return handler
}
