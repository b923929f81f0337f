package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/store/memory"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

var _ ports.TodoRepository = (*memory.Store)(nil)

func mustCreate(t *testing.T, s *memory.Store, name string, complete bool) *todo.Todo {
	t.Helper()

	created, err := s.Create(context.Background(), &todo.Todo{Name: todo.StringPtr(name), IsComplete: complete})
	if err != nil {
		t.Fatalf("Create(%q) error = %v", name, err)
	}
	return created
}

func TestStore_CreateThenGet(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	created := mustCreate(t, s, "walk dog", false)
	if created.ID != 1 {
		t.Errorf("first ID = %d, want 1", created.ID)
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(%d) error = %v", created.ID, err)
	}
	if got.NameOrEmpty() != "walk dog" || got.IsComplete {
		t.Errorf("Get() = %+v, want name \"walk dog\" incomplete", got)
	}
}

func TestStore_CreateIgnoresClientID(t *testing.T) {
	t.Parallel()
	s := memory.New()

	created, err := s.Create(context.Background(), &todo.Todo{ID: 99, Name: todo.StringPtr("x")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1 (client ID ignored)", created.ID)
	}
}

func TestStore_IDsAreMonotonicAndNeverReused(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	a := mustCreate(t, s, "a", false)
	b := mustCreate(t, s, "b", false)
	if _, err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	c := mustCreate(t, s, "c", false)

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Errorf("IDs = %d, %d, %d, want strictly increasing", a.ID, b.ID, c.ID)
	}
}

func TestStore_ListOrderAndFilter(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	mustCreate(t, s, "one", true)
	mustCreate(t, s, "two", false)
	mustCreate(t, s, "three", true)

	all, err := s.List(ctx, todo.Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() len = %d, want 3", len(all))
	}
	for i, item := range all {
		if item.ID != int64(i+1) {
			t.Errorf("List()[%d].ID = %d, want %d", i, item.ID, i+1)
		}
	}

	done, err := s.List(ctx, todo.CompletedOnly())
	if err != nil {
		t.Fatalf("List(completed) error = %v", err)
	}
	if len(done) != 2 {
		t.Fatalf("List(completed) len = %d, want 2", len(done))
	}
	for _, item := range done {
		if !item.IsComplete {
			t.Errorf("List(completed) returned incomplete item %d", item.ID)
		}
	}
}

func TestStore_ListEmptyIsNotNil(t *testing.T) {
	t.Parallel()

	got, err := memory.New().List(context.Background(), todo.Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil {
		t.Error("List() = nil, want empty slice")
	}
}

func TestStore_Update(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	created := mustCreate(t, s, "old", false)

	updated, err := s.Update(ctx, created.ID, &todo.Todo{ID: 42, Name: todo.StringPtr("new"), IsComplete: true})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("Update() ID = %d, want %d", updated.ID, created.ID)
	}

	got, _ := s.Get(ctx, created.ID)
	if got.NameOrEmpty() != "new" || !got.IsComplete {
		t.Errorf("Get() after Update = %+v, want name \"new\" complete", got)
	}
}

func TestStore_NotFound(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	if _, err := s.Get(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Update(ctx, 1, &todo.Todo{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Delete(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestStore_DeleteReturnsItemAndRemovesIt(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	created := mustCreate(t, s, "gone", true)

	removed, err := s.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if removed.ID != created.ID || removed.NameOrEmpty() != "gone" {
		t.Errorf("Delete() = %+v, want the removed item", removed)
	}

	all, _ := s.List(ctx, todo.Filter{})
	if len(all) != 0 {
		t.Errorf("List() after Delete len = %d, want 0", len(all))
	}
}

func TestStore_ReturnedValuesAreCopies(t *testing.T) {
	t.Parallel()
	s := memory.New()
	ctx := context.Background()

	created := mustCreate(t, s, "original", false)
	*created.Name = "mutated"

	got, _ := s.Get(ctx, created.ID)
	if got.NameOrEmpty() != "original" {
		t.Errorf("stored Name = %q, want \"original\"", got.NameOrEmpty())
	}
}

func TestStore_CanceledContext(t *testing.T) {
	t.Parallel()
	s := memory.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Create(ctx, &todo.Todo{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Create(canceled) error = %v, want context.Canceled", err)
	}
}

func TestStore_ConcurrentCreatesAssignUniqueIDs(t *testing.T) {
	t.Parallel()
	s := memory.New()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.Create(context.Background(), &todo.Todo{})
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			ids <- created.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Errorf("unique IDs = %d, want %d", len(seen), n)
	}
}

func TestStore_Health(t *testing.T) {
	t.Parallel()
	s := memory.New()

	if s.Name() != "memory" {
		t.Errorf("Name() = %q, want \"memory\"", s.Name())
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}
