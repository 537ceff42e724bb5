package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDHeader                = "X-Request-ID"
	RequestIDContextKey contextKey = "request_id"
)

// RequestLogMiddleware assigns every request an ID and logs its outcome.
type RequestLogMiddleware struct {
	logger *slog.Logger
}

// NewRequestLogMiddleware creates a new request logging middleware
func NewRequestLogMiddleware(logger *slog.Logger) *RequestLogMiddleware {
	return &RequestLogMiddleware{logger: logger}
}

// Handler returns an HTTP middleware function that tags the request with an
// ID, echoes it in the response, and logs method, route, status and duration.
func (m *RequestLogMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, requestID)
		recorder := newStatusRecorder(w)
		start := time.Now()

		next.ServeHTTP(recorder, r.WithContext(ctx))

		m.logger.Info("request_completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// GetRequestIDFromContext returns the request ID set by the middleware.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	return requestID, ok
}
