// Package todo holds the Todo entity and its list filter.
package todo

import (
	"fmt"
	"unicode/utf8"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
)

// MaxNameLength is the longest name, in characters, a Todo may carry.
const MaxNameLength = 256

// Todo is a single task item. ID is assigned by the store on creation.
type Todo struct {
	ID         int64
	Name       *string
	IsComplete bool
}

// NameOrEmpty returns the name, or "" when the todo has none.
func (t *Todo) NameOrEmpty() string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

// Validate checks business rules for the Todo entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (t *Todo) Validate() error {
	fields := make(map[string]string)

	if utf8.RuneCountInString(t.NameOrEmpty()) > MaxNameLength {
		fields["name"] = fmt.Sprintf("must be at most %d characters", MaxNameLength)
	}
	if t.ID < 0 {
		fields["id"] = fmt.Sprintf("must not be negative, got %d", t.ID)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Replace copies the mutable fields (name and completion flag) from src.
// The identifier is left untouched.
func (t *Todo) Replace(src *Todo) {
	t.Name = cloneName(src.Name)
	t.IsComplete = src.IsComplete
}

// Clone returns a deep copy so callers cannot mutate stored state through
// the Name pointer.
func (t Todo) Clone() Todo {
	t.Name = cloneName(t.Name)
	return t
}

func cloneName(name *string) *string {
	if name == nil {
		return nil
	}
	n := *name
	return &n
}

// StringPtr returns a pointer to s. Convenient for building Todo literals.
func StringPtr(s string) *string {
	return &s
}
