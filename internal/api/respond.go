package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"boom-blog/internal/utils"
)

const internalErrorMessage = "Internal server error"

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("Failed to encode response", "error", err)
	}
}

// WriteError maps err to a status code and a {"detail": ...} body. Server errors are
// logged in full and answered with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, metrics *utils.MetricsCollector, err error) {
	status := utils.HTTPStatus(err)
	code := utils.ErrInternal
	message := internalErrorMessage

	if appErr, ok := utils.AsAppError(err); ok {
		code = appErr.Code
		if status < http.StatusInternalServerError {
			message = appErr.Message
		}
	}
	metrics.IncrementErrors(code)

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	WriteJSON(w, status, ErrorResponse{Detail: message})
}
