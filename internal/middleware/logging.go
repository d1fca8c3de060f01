package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader carries the request ID to the booking API.
const RequestIDHeader = "X-Request-ID"

// WithRequestID returns a context carrying the given request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID extracts request ID from context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Logging stamps every outbound request with a request ID and logs its duration.
// The ID is taken from the request context when present, else generated.
func Logging(logger *slog.Logger) func(http.RoundTripper) http.RoundTripper {
	return func(next http.RoundTripper) http.RoundTripper {
		if next == nil {
			next = http.DefaultTransport
		}
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			requestID := RequestID(r.Context())
			if requestID == "" {
				requestID = uuid.New().String()
			}

			// RoundTrippers must not modify the caller's request
			r = r.Clone(r.Context())
			r.Header.Set(RequestIDHeader, requestID)

			logger.Debug("request started",
				"request_id", requestID,
				"method", r.Method,
				"url", r.URL.String(),
			)

			resp, err := next.RoundTrip(r)
			duration := time.Since(start)
			if err != nil {
				logger.Warn("request failed",
					"request_id", requestID,
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
					"duration_ms", duration.Milliseconds(),
				)
				return nil, err
			}

			logger.Info("request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", resp.StatusCode,
				"duration_ms", duration.Milliseconds(),
			)
			return resp, nil
		})
	}
}
