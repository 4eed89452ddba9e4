package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"social-app-go/pkg/logger"
)

// RequestLogger stores a logger tagged with the chi request id in the request context.
// Must run after chimw.RequestID.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scoped := log.With("request_id", chimw.GetReqID(r.Context()), "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(logger.IntoContext(r.Context(), scoped)))
		})
	}
}
