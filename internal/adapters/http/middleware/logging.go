package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

// Logging returns middleware that logs request start and completion events.
// It creates a child logger enriched with the request ID and correlation ID
// from context, stores it via logging.WithLogger for downstream use, and
// logs completion with the matched route, status code, response size, and
// duration. Completion is logged at warn for 4xx and error for 5xx responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			if child.Enabled(ctx, slog.LevelDebug) {
				headerAttrs := RedactHeaders(r.Header)
				args := make([]any, 0, len(headerAttrs))
				for _, a := range headerAttrs {
					args = append(args, a)
				}
				child.DebugContext(ctx, "request headers", args...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			}
			if route := routePattern(r); route != "" {
				attrs = append(attrs, slog.String("route", route))
			}
			child.LogAttrs(ctx, completionLevel(rw.statusCode), "request completed", attrs...)
		})
	}
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
