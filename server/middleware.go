package server

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// loggingMiddleware logs every request once it completes and counts it by route.
func loggingMiddleware(logger *slog.Logger, m *metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Incoming request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.observeRequest(route, snoop.Code)

		logger.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", snoop.Code,
			"bytes", snoop.Written,
			"duration", snoop.Duration,
		)
	})
}
