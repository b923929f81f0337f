package neo4jstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

var _ ports.TodoRepository = (*Store)(nil)

func TestRecordToTodo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		values  map[string]any
		want    todo.Todo
		wantErr bool
	}{
		{
			name:   "full record",
			values: map[string]any{"id": int64(3), "name": "walk dog", "isComplete": true},
			want:   todo.Todo{ID: 3, Name: todo.StringPtr("walk dog"), IsComplete: true},
		},
		{
			name:   "missing name and flag",
			values: map[string]any{"id": int64(4), "name": nil, "isComplete": nil},
			want:   todo.Todo{ID: 4},
		},
		{
			name:    "id of wrong type",
			values:  map[string]any{"id": "4"},
			wantErr: true,
		},
		{
			name:    "name of wrong type",
			values:  map[string]any{"id": int64(4), "name": 12},
			wantErr: true,
		},
		{
			name:    "flag of wrong type",
			values:  map[string]any{"id": int64(4), "isComplete": "yes"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := recordToTodo(tt.values)
			if tt.wantErr {
				if !errors.Is(err, errBadRecord) {
					t.Errorf("recordToTodo() error = %v, want errBadRecord", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("recordToTodo() error = %v", err)
			}
			if got.ID != tt.want.ID || got.NameOrEmpty() != tt.want.NameOrEmpty() ||
				(got.Name == nil) != (tt.want.Name == nil) || got.IsComplete != tt.want.IsComplete {
				t.Errorf("recordToTodo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTodoParams(t *testing.T) {
	t.Parallel()

	named := todoParams(&todo.Todo{ID: 9, Name: todo.StringPtr("x"), IsComplete: true})
	if named["name"] != "x" || named["isComplete"] != true {
		t.Errorf("todoParams(named) = %v", named)
	}
	if _, ok := named["id"]; ok {
		t.Error("todoParams() includes id, want only mutable fields")
	}

	unnamed := todoParams(&todo.Todo{})
	if unnamed["name"] != nil {
		t.Errorf("todoParams(unnamed)[name] = %v, want nil", unnamed["name"])
	}
}

func TestFirst(t *testing.T) {
	t.Parallel()

	if _, err := first(nil, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("first(nil) error = %v, want ErrNotFound", err)
	}

	got, err := first([]todo.Todo{{ID: 7}}, 7)
	if err != nil || got.ID != 7 {
		t.Errorf("first() = %v, %v, want id 7", got, err)
	}
}

func TestUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{"driver failure", errors.New("connection refused"), true},
		{"caller canceled", fmt.Errorf("run: %w", context.Canceled), false},
		{"caller deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), false},
		{"malformed record", fmt.Errorf("%w: id is string", errBadRecord), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := unavailable("listing todos", tt.err)
			if got := errors.Is(err, domain.ErrUnavailable); got != tt.wantUnavailable {
				t.Errorf("errors.Is(unavailable(), ErrUnavailable) = %v, want %v", got, tt.wantUnavailable)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("unavailable() = %v, want it to wrap %v", err, tt.err)
			}
		})
	}
}

func TestUnavailable_MalformedRecordIsInternal(t *testing.T) {
	t.Parallel()

	_, cause := recordToTodo(map[string]any{"id": "seven", "name": nil, "isComplete": false})
	err := unavailable("getting todo", cause)

	if !errors.Is(err, errBadRecord) {
		t.Fatalf("unavailable() = %v, want errBadRecord", err)
	}
	if errors.Is(err, domain.ErrUnavailable) {
		t.Errorf("unavailable() = %v, want malformed records kept out of ErrUnavailable", err)
	}
}

func TestOpen_UnreachableServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, Config{URI: "neo4j://127.0.0.1:1", Username: "neo4j", Password: "password"})
	if err == nil {
		t.Fatal("Open(unreachable) error = nil, want error")
	}
}
