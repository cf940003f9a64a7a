package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wanderstay/listing-service/internal/platform/logger"
	"github.com/wanderstay/listing-service/internal/platform/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request and feeds the latency histogram.
func RequestLogger(log *logger.Logger, mm *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			route := r.Method + " " + r.URL.Path
			if mm != nil {
				mm.RequestLatency.WithLabelValues(route).Observe(duration.Seconds())
				if rec.status >= 500 {
					mm.RequestErrorsTotal.WithLabelValues(route, "server_error").Inc()
				}
			}

			if rec.status >= 500 {
				log.Error("HTTP request failed",
					zap.String("method", r.Method), zap.String("path", r.URL.Path),
					zap.Int("status", rec.status), zap.Duration("duration", duration))
			} else {
				log.Info("HTTP request completed",
					zap.String("method", r.Method), zap.String("path", r.URL.Path),
					zap.Int("status", rec.status), zap.Duration("duration", duration))
			}
		})
	}
}
