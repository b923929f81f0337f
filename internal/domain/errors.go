package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the failing fields in name order so the message is stable.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, field := range names {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError wraps ErrNotFound with the kind and identifier of the
// missing entity.
func NotFoundError(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}
