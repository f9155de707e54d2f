// Package middleware provides the HTTP middleware of the API: request
// tracing and token authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iseem/iseem-api/internal/api/shared"
	"github.com/iseem/iseem-api/internal/platform/logger"
)

// NewTraceMiddleware attaches a trace ID to every request and stores a
// request-scoped logger carrying it in the context, so every log line of
// the request correlates with the error responses the client sees.
func NewTraceMiddleware(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())

			requestLogger := baseLogger.With(
				slog.String("trace_id", shared.GetTraceID(ctx)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			ctx = logger.WithLogger(ctx, requestLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
