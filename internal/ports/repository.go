package ports

import (
	"context"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

// TodoRepository defines the storage port for todo items.
// Implemented by the store adapters (memory, gorm, neo4j); called by the
// application layer. Implementations own identifier assignment: IDs are
// positive, assigned in increasing order, and never reused.
type TodoRepository interface {
	// List returns the todos matching filter, ordered by ascending ID.
	// Pass a zero-value Filter to list all todos.
	List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error)

	// Get returns a single todo by ID.
	// Returns domain.ErrNotFound if the todo does not exist.
	Get(ctx context.Context, id int64) (*todo.Todo, error)

	// Create stores a new todo, ignoring any ID on the input, and returns
	// the stored entity with its assigned ID.
	Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error)

	// Update replaces the name and completion flag of the todo with the
	// given ID. The stored ID is never changed.
	// Returns domain.ErrNotFound if the todo does not exist.
	Update(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error)

	// Delete removes the todo with the given ID and returns it as it was
	// before removal.
	// Returns domain.ErrNotFound if the todo does not exist.
	Delete(ctx context.Context, id int64) (*todo.Todo, error)

	// Close releases connections or other resources held by the store.
	Close(ctx context.Context) error
}
