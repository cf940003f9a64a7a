package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/platform/logger"
)

// Recoverer is the top-level fault boundary: unexpected panics are logged
// and answered with a generic failure page.
func Recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("HTTP handler panicked",
						zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Any("panic", rec))
					http.Error(w, "Something went wrong!", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
