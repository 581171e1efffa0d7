package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// loggingMiddleware tags each request with an id and logs method, path,
// and duration on completion.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()

		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)

		s.logger.Debug("http request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// recoveryMiddleware converts handler panics into a 500
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				s.writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
