package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"boom-blog/internal/utils"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
)

// RequestLogger logs each request and feeds the request metrics. The route label is the
// matched mux pattern so path parameters don't explode label cardinality.
func RequestLogger(logger *slog.Logger, metrics *utils.MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var route string
			m := httpsnoop.CaptureMetricsFn(w, func(w http.ResponseWriter) {
				next.ServeHTTP(w, r)
				route = r.Pattern
			})
			if route == "" {
				route = "unmatched"
			}

			metrics.ObserveRequest(r.Method, route, m.Code, m.Duration)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", m.Code,
				"bytes", m.Written,
				"duration", m.Duration,
			)
		})
	}
}

// Recovery turns handler panics into 500s and logs them.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger}),
		handlers.PrintRecoveryStack(false),
	)
}

type recoveryLogger struct {
	log *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic", "panic", fmt.Sprint(v...))
}
