package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/warrnstack/statuspage-web/internal/metrics"
)

// requestLogger tags every request with an id, logs its outcome, and feeds
// the latency histogram.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			ww := chimiddleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, req)
			duration := time.Since(start)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.ObserveRequest(statusClass(status), duration)

			logger.Info("request",
				slog.String("request_id", requestID),
				slog.String("method", req.Method),
				slog.String("host", req.Host),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Duration("duration", duration),
			)
		})
	}
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
