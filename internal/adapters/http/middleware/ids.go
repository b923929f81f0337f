package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	headerRequestID     = "X-Request-ID"
	headerCorrelationID = "X-Correlation-ID"

	// maxInboundIDLength caps caller-supplied identifiers before they reach
	// logs and response headers.
	maxInboundIDLength = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, requestIDKey)
}

// WithCorrelationID returns a copy of ctx carrying the correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idFromContext(ctx, correlationIDKey)
}

// RequestID returns middleware that assigns every request an X-Request-ID.
// A well-formed inbound header is kept; anything else is replaced with a
// fresh UUID v4. The ID goes into the request context and the response.
func RequestID() func(http.Handler) http.Handler {
	return propagateID(headerRequestID, WithRequestID, func(*http.Request) string {
		return uuid.NewString()
	})
}

// CorrelationID returns middleware that carries X-Correlation-ID across the
// request. Without a usable inbound header it falls back to the request ID,
// so it must run after RequestID.
func CorrelationID() func(http.Handler) http.Handler {
	return propagateID(headerCorrelationID, WithCorrelationID, func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	})
}

func propagateID(
	header string,
	store func(context.Context, string) context.Context,
	fallback func(*http.Request) string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if !validInboundID(id) {
				id = fallback(r)
			}
			if id != "" {
				w.Header().Set(header, id)
			}
			next.ServeHTTP(w, r.WithContext(store(r.Context(), id)))
		})
	}
}

// validInboundID accepts non-empty printable ASCII without spaces.
func validInboundID(id string) bool {
	if id == "" || len(id) > maxInboundIDLength {
		return false
	}
	for i := range len(id) {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}

func idFromContext(ctx context.Context, key idKey) string {
	id, _ := ctx.Value(key).(string)
	return id
}
