package middleware

import "net/http"

// responseWriter records what a handler sent so that recovery, otel and
// logging can report on it after next.ServeHTTP returns.
type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	headerWritten bool
	written       int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader forwards the first status code and drops the rest, matching
// net/http's own superfluous-call behavior.
func (rw *responseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode, rw.headerWritten = code, true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.headerWritten = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Flush commits the implicit 200 and flushes when the underlying writer
// supports it.
func (rw *responseWriter) Flush() {
	rw.headerWritten = true
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
