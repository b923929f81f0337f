package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

// TodoService defines the service port for todo operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type TodoService interface {
	// ListTodos returns every todo ordered by ascending ID.
	ListTodos(ctx context.Context) ([]todo.Todo, error)

	// ListCompletedTodos returns only the todos whose completion flag is set.
	ListCompletedTodos(ctx context.Context) ([]todo.Todo, error)

	// GetTodo returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	GetTodo(ctx context.Context, id int64) (*todo.Todo, error)

	// CreateTodo validates and stores a new todo, returning it with its
	// server-assigned ID.
	// Returns domain.ErrValidation if the todo fails validation.
	CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error)

	// ReplaceTodo overwrites the name and completion flag of an existing todo.
	// Returns domain.ErrNotFound if the todo does not exist.
	// Returns domain.ErrValidation if the replacement fails validation.
	ReplaceTodo(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error)

	// DeleteTodo removes a todo and returns the removed item.
	// Returns domain.ErrNotFound if the todo does not exist.
	DeleteTodo(ctx context.Context, id int64) (*todo.Todo, error)
}
