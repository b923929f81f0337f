package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/platform/logging"
)

const redactedValue = "[REDACTED]"

// RedactHeaders converts an http.Header map into a slice of slog.Attr values
// sorted by header name. Headers listed in logging.SensitiveHeaders are
// replaced with "[REDACTED]"; multi-value headers are joined with a comma.
func RedactHeaders(headers http.Header) []slog.Attr {
	names := make([]string, 0, len(headers))
	for key := range headers {
		names = append(names, key)
	}
	slices.Sort(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, key := range names {
		if logging.SensitiveHeaders[strings.ToLower(key)] {
			attrs = append(attrs, slog.String(key, redactedValue))
			continue
		}
		attrs = append(attrs, slog.String(key, strings.Join(headers[key], ",")))
	}
	return attrs
}
