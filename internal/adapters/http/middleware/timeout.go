package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

// Timeout returns middleware that enforces a request deadline. If the handler
// does not complete within the given duration, an RFC 9457 504 Gateway Timeout
// response is written and later writes from the handler fail with
// http.ErrHandlerTimeout. The context passed to the handler carries the
// deadline so that store calls can respect it. A non-positive timeout
// disables the middleware.
//
// The handler runs in a separate goroutine. The writer's mutex ensures that
// exactly one of the handler or the timeout path writes the response.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &timeoutWriter{w: w}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.flush()
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if tw.wroteHeader || !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return
				}
				logging.FromContext(r.Context()).WarnContext(r.Context(), "request timed out",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", timeout),
				)
				dto.WriteStatusResponse(w, r, http.StatusGatewayTimeout,
					fmt.Sprintf("request did not complete within %s", timeout))
			}
		})
	}
}

// timeoutWriter buffers the response so that the timeout path can safely
// write a 504 if the handler hasn't finished. All writes are guarded by a
// mutex shared between the handler goroutine and the timeout select.
type timeoutWriter struct {
	w           http.ResponseWriter
	mu          sync.Mutex
	header      http.Header
	buf         []byte
	statusCode  int
	wroteHeader bool
	timedOut    bool
}

func (tw *timeoutWriter) Header() http.Header {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.header == nil {
		tw.header = make(http.Header)
	}
	return tw.header
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.statusCode = http.StatusOK
		tw.wroteHeader = true
	}
	tw.buf = append(tw.buf, b...)
	return len(b), nil
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.wroteHeader {
		return
	}
	tw.statusCode = code
	tw.wroteHeader = true
}

// flush copies the buffered response to the underlying writer. Must be
// called with tw.mu held.
func (tw *timeoutWriter) flush() {
	if tw.header != nil {
		maps.Copy(tw.w.Header(), tw.header)
	}
	if tw.wroteHeader {
		tw.w.WriteHeader(tw.statusCode)
	}
	if len(tw.buf) > 0 {
		_, _ = tw.w.Write(tw.buf)
	}
}
