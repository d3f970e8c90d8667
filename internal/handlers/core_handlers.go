package handlers

import (
	"net/http"
	"time"

	"boom-blog/internal/api"
)

// HandleHealth handles health check requests
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := api.HealthResponse{
			Status:     "healthy",
			Database:   "ok",
			ServerTime: time.Now().UTC().Format(time.RFC3339),
		}
		status := http.StatusOK
		if s.DB != nil {
			if err := s.DB.Ping(r.Context()); err != nil {
				s.Log.Warn("Health check failed", "error", err)
				resp.Status = "degraded"
				resp.Database = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}
		api.WriteJSON(w, status, resp)
	}
}
