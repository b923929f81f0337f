// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

// Compile-time check that TodoService implements ports.TodoService.
var _ ports.TodoService = (*TodoService)(nil)

// TodoService implements ports.TodoService on top of a TodoRepository. It
// handles validation and structured logging but leaves storage semantics
// (ID assignment, ordering) to the repository.
type TodoService struct {
	repo   ports.TodoRepository
	logger *slog.Logger
}

// NewTodoService creates a TodoService. A nil logger is replaced with one
// that discards output.
func NewTodoService(repo ports.TodoRepository, logger *slog.Logger) *TodoService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TodoService{
		repo:   repo,
		logger: logger,
	}
}

// ListTodos returns every todo ordered by ascending ID.
func (s *TodoService) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing todos")

	todos, err := s.repo.List(ctx, todo.Filter{})
	if err != nil {
		s.logFailure(ctx, "failed to list todos", "ListTodos", err)
		return nil, err
	}

	return todos, nil
}

// ListCompletedTodos returns the todos whose completion flag is set.
func (s *TodoService) ListCompletedTodos(ctx context.Context) ([]todo.Todo, error) {
	s.logger.InfoContext(ctx, "listing completed todos")

	todos, err := s.repo.List(ctx, todo.CompletedOnly())
	if err != nil {
		s.logFailure(ctx, "failed to list completed todos", "ListCompletedTodos", err)
		return nil, err
	}

	return todos, nil
}

// GetTodo returns a single todo by ID.
func (s *TodoService) GetTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "fetching todo", slog.Int64("todo_id", id))

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to fetch todo", "GetTodo", err, slog.Int64("todo_id", id))
		return nil, err
	}

	return t, nil
}

// CreateTodo validates and stores a new todo. Any client-supplied ID is
// discarded; the repository assigns the next one.
func (s *TodoService) CreateTodo(ctx context.Context, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "creating todo", slog.Bool("is_complete", t.IsComplete))

	input := t.Clone()
	input.ID = 0

	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &input)
	if err != nil {
		s.logFailure(ctx, "failed to create todo", "CreateTodo", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "todo created", slog.Int64("todo_id", created.ID))
	return created, nil
}

// ReplaceTodo overwrites the name and completion flag of an existing todo.
func (s *TodoService) ReplaceTodo(ctx context.Context, id int64, t *todo.Todo) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "replacing todo", slog.Int64("todo_id", id))

	input := t.Clone()
	input.ID = id

	if err := input.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, &input)
	if err != nil {
		s.logFailure(ctx, "failed to replace todo", "ReplaceTodo", err, slog.Int64("todo_id", id))
		return nil, err
	}

	return updated, nil
}

// DeleteTodo removes a todo and returns the removed item.
func (s *TodoService) DeleteTodo(ctx context.Context, id int64) (*todo.Todo, error) {
	s.logger.InfoContext(ctx, "deleting todo", slog.Int64("todo_id", id))

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logFailure(ctx, "failed to delete todo", "DeleteTodo", err, slog.Int64("todo_id", id))
		return nil, err
	}

	return deleted, nil
}

// logFailure logs a repository error. Not-found is an expected outcome of a
// lookup and is logged at info level; everything else is an error.
func (s *TodoService) logFailure(ctx context.Context, msg, operation string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if errors.Is(err, domain.ErrNotFound) {
		level = slog.LevelInfo
	}

	args := make([]slog.Attr, 0, len(attrs)+2)
	args = append(args, slog.String("operation", operation))
	args = append(args, attrs...)
	args = append(args, slog.Any("error", err))

	s.logger.LogAttrs(ctx, level, msg, args...)
}
