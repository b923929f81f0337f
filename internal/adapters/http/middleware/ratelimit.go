package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

// RateLimit returns middleware that admits requests through a token bucket
// refilled at requestsPerSecond with the given burst. Rejected requests get a
// 429 Problem Details response and a Retry-After header in whole seconds.
//
// A non-positive requestsPerSecond disables limiting and returns a
// pass-through middleware.
func RateLimit(requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), max(burst, 1))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := limiter.Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()

				ctx := r.Context()
				logging.FromContext(ctx).WarnContext(ctx, "request rate limited",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("retry_after", delay),
				)

				w.Header().Set("Retry-After", retryAfterSeconds(delay))
				dto.WriteStatusResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds rounds delay up to whole seconds, with a minimum of 1.
func retryAfterSeconds(delay time.Duration) string {
	secs := max(int(math.Ceil(delay.Seconds())), 1)
	return strconv.Itoa(secs)
}
