package dto

import (
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

// TodoRequest is the JSON body accepted by POST and PUT /todoitems. The id
// field is accepted for compatibility with clients that echo whole items back
// but is never used: the store assigns IDs and PUT takes its ID from the path.
type TodoRequest struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name" validate:"omitempty,max=256"`
	IsComplete bool    `json:"isComplete"`
}

// Validate checks the request against its struct tags.
// Returns a *domain.ValidationError keyed by JSON field name.
func (r *TodoRequest) Validate() error {
	return validateStruct(r)
}

// ToTodo converts the request to a domain Todo without an ID.
func (r *TodoRequest) ToTodo() *todo.Todo {
	t := &todo.Todo{IsComplete: r.IsComplete}
	if r.Name != nil {
		t.Name = todo.StringPtr(*r.Name)
	}
	return t
}
