package middleware

import (
	"net/http"

	"github.com/wahlware/wahlhost/internal/logging"
	"go.uber.org/zap"
)

// InjectLogger makes the process logger reachable through the request context.
func InjectLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), logger)))
		})
	}
}
