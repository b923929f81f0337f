// Package memory provides an in-process TodoRepository backed by an ordered
// B-tree. Contents are lost when the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/tidwall/btree"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

// Store keeps todos ordered by ID. Stored values are cloned on the way in and
// out so callers never share the Name pointer with the tree.
type Store struct {
	mu     sync.RWMutex
	items  btree.Map[int64, todo.Todo]
	lastID int64
}

// New creates an empty Store whose first assigned ID is 1.
func New() *Store {
	return &Store{}
}

// List returns matching todos in ascending ID order.
func (s *Store) List(ctx context.Context, filter todo.Filter) ([]todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]todo.Todo, 0, s.items.Len())
	s.items.Scan(func(_ int64, t todo.Todo) bool {
		if filter.Matches(&t) {
			out = append(out, t.Clone())
		}
		return true
	})
	return out, nil
}

// Get returns the todo with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.items.Get(id)
	if !ok {
		return nil, domain.NotFoundError("todo", id)
	}
	out := t.Clone()
	return &out, nil
}

// Create assigns the next ID and stores t. Any ID on t is ignored.
func (s *Store) Create(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	stored := todo.Todo{ID: s.lastID}
	stored.Replace(t)
	s.items.Set(stored.ID, stored)

	out := stored.Clone()
	return &out, nil
}

// Update replaces the name and completion flag of an existing todo.
func (s *Store) Update(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.items.Get(id)
	if !ok {
		return nil, domain.NotFoundError("todo", id)
	}
	stored.Replace(t)
	s.items.Set(id, stored)

	out := stored.Clone()
	return &out, nil
}

// Delete removes the todo and returns it.
func (s *Store) Delete(ctx context.Context, id int64) (*todo.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, ok := s.items.Delete(id)
	if !ok {
		return nil, domain.NotFoundError("todo", id)
	}
	return &removed, nil
}

// Close is a no-op; there is nothing to release.
func (s *Store) Close(context.Context) error {
	return nil
}

// Name identifies the store in health reports.
func (s *Store) Name() string {
	return "memory"
}

// HealthCheck always succeeds.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}
