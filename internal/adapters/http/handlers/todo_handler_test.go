package handlers_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
	"github.com/jsamuelsen11/go-todo-minimal-api/mocks"
)

func newTodoHandler(t *testing.T) (*handlers.TodoHandler, *mocks.MockTodoService) {
	t.Helper()
	svc := mocks.NewMockTodoService(t)
	return handlers.NewTodoHandler(svc), svc
}

// --- ListTodos ---

func TestListTodos_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	done := validTodo()
	done.ID = 2
	done.IsComplete = true
	svc.EXPECT().ListTodos(mock.Anything).Return([]todo.Todo{validTodo(), done}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/todoitems", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[[]dto.TodoResponse](t, rec)
	if len(resp) != 2 {
		t.Fatalf("len(resp) = %d, want 2", len(resp))
	}
	if resp[0].ID != 1 || resp[1].ID != 2 {
		t.Errorf("IDs = [%d %d], want [1 2]", resp[0].ID, resp[1].ID)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestListTodos_EmptyIsArray(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything).Return(nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/todoitems", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestListTodos_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListTodos(mock.Anything).
		Return(nil, fmt.Errorf("memory store list: %w", domain.ErrUnavailable))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/todoitems", nil)
	h.ListTodos(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
}

// --- ListCompletedTodos ---

func TestListCompletedTodos_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	done := validTodo()
	done.IsComplete = true
	svc.EXPECT().ListCompletedTodos(mock.Anything).Return([]todo.Todo{done}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/todoitems/complete", nil)
	h.ListCompletedTodos(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[[]dto.TodoResponse](t, rec)
	if len(resp) != 1 || !resp[0].IsComplete {
		t.Errorf("resp = %+v, want one completed item", resp)
	}
}

func TestListCompletedTodos_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ListCompletedTodos(mock.Anything).Return(nil, errors.New("boom"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/todoitems/complete", nil)
	h.ListCompletedTodos(rec, req)

	requireStatus(t, rec, http.StatusInternalServerError)
}

// --- GetTodo ---

func TestGetTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	td := validTodo()
	svc.EXPECT().GetTodo(mock.Anything, int64(1)).Return(&td, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/todoitems/1", nil),
		map[string]string{"id": "1"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.Name == nil || *resp.Name != "walk dog" {
		t.Errorf("Name = %v, want %q", resp.Name, "walk dog")
	}
}

func TestGetTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().GetTodo(mock.Anything, int64(999)).Return(nil, domain.NotFoundError("todo", 999))

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/todoitems/999", nil),
		map[string]string{"id": "999"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q, want application/problem+json", ct)
	}
}

func TestGetTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodGet, "/todoitems/abc", nil),
		map[string]string{"id": "abc"})
	h.GetTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Location != "path.id" {
		t.Errorf("Errors = %+v, want one error at path.id", resp.Errors)
	}
}

// --- CreateTodo ---

func TestCreateTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	created := validTodo()
	created.ID = 7
	svc.EXPECT().CreateTodo(mock.Anything, mock.MatchedBy(func(td *todo.Todo) bool {
		return td.ID == 0 && td.NameOrEmpty() == "walk dog" && !td.IsComplete
	})).Return(&created, nil)

	body := jsonBody(t, dto.TodoRequest{ID: 42, Name: todo.StringPtr("walk dog")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems", body)
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	if loc := rec.Header().Get("Location"); loc != "/todoitems/7" {
		t.Errorf("Location = %q, want %q", loc, "/todoitems/7")
	}
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.ID != 7 {
		t.Errorf("ID = %d, want 7", resp.ID)
	}
}

func TestCreateTodo_NullName(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	created := todo.Todo{ID: 1, IsComplete: true}
	svc.EXPECT().CreateTodo(mock.Anything, mock.MatchedBy(func(td *todo.Todo) bool {
		return td.Name == nil && td.IsComplete
	})).Return(&created, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems",
		strings.NewReader(`{"name":null,"isComplete":true}`))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusCreated)
	if got := strings.TrimSpace(rec.Body.String()); got != `{"id":1,"name":null,"isComplete":true}` {
		t.Errorf("body = %s, want name serialized as null", got)
	}
}

func TestCreateTodo_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems", bytes.NewBufferString("{bad"))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTodo_NameTooLong(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	long := strings.Repeat("a", todo.MaxNameLength+1)
	body := jsonBody(t, dto.TodoRequest{Name: &long})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems", body)
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
	resp := decodeJSON[dto.ErrorResponse](t, rec)
	if len(resp.Errors) != 1 || resp.Errors[0].Location != "body.name" {
		t.Errorf("Errors = %+v, want one error at body.name", resp.Errors)
	}
}

func TestCreateTodo_BodyTooLarge(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	huge := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems", strings.NewReader(huge))
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestCreateTodo_ServiceError(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().CreateTodo(mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("sqlite store create: %w", domain.ErrUnavailable))

	body := jsonBody(t, dto.TodoRequest{Name: todo.StringPtr("walk dog")})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/todoitems", body)
	h.CreateTodo(rec, req)

	requireStatus(t, rec, http.StatusBadGateway)
	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("Location = %q, want empty on failure", loc)
	}
}

// --- ReplaceTodo ---

func TestReplaceTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	updated := todo.Todo{ID: 1, Name: todo.StringPtr(testUpdatedValue), IsComplete: true}
	svc.EXPECT().ReplaceTodo(mock.Anything, int64(1), mock.MatchedBy(func(td *todo.Todo) bool {
		return td.NameOrEmpty() == testUpdatedValue && td.IsComplete
	})).Return(&updated, nil)

	body := jsonBody(t, dto.TodoRequest{ID: 5, Name: todo.StringPtr(testUpdatedValue), IsComplete: true})
	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPut, "/todoitems/1", body),
		map[string]string{"id": "1"})
	h.ReplaceTodo(rec, req)

	requireStatus(t, rec, http.StatusNoContent)
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
}

func TestReplaceTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().ReplaceTodo(mock.Anything, int64(999), mock.Anything).
		Return(nil, domain.NotFoundError("todo", 999))

	body := jsonBody(t, dto.TodoRequest{Name: todo.StringPtr("x")})
	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPut, "/todoitems/999", body),
		map[string]string{"id": "999"})
	h.ReplaceTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

func TestReplaceTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	body := jsonBody(t, dto.TodoRequest{Name: todo.StringPtr("x")})
	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPut, "/todoitems/abc", body),
		map[string]string{"id": "abc"})
	h.ReplaceTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

func TestReplaceTodo_InvalidJSON(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodPut, "/todoitems/1", strings.NewReader("[")),
		map[string]string{"id": "1"})
	h.ReplaceTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}

// --- DeleteTodo ---

func TestDeleteTodo_Success(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	td := validTodo()
	svc.EXPECT().DeleteTodo(mock.Anything, int64(1)).Return(&td, nil)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/todoitems/1", nil),
		map[string]string{"id": "1"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusOK)
	resp := decodeJSON[dto.TodoResponse](t, rec)
	if resp.ID != 1 {
		t.Errorf("ID = %d, want 1", resp.ID)
	}
}

func TestDeleteTodo_NotFound(t *testing.T) {
	t.Parallel()
	h, svc := newTodoHandler(t)

	svc.EXPECT().DeleteTodo(mock.Anything, int64(999)).Return(nil, domain.NotFoundError("todo", 999))

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/todoitems/999", nil),
		map[string]string{"id": "999"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusNotFound)
}

func TestDeleteTodo_InvalidID(t *testing.T) {
	t.Parallel()
	h, _ := newTodoHandler(t)

	rec := httptest.NewRecorder()
	req := withChiParams(httptest.NewRequest(http.MethodDelete, "/todoitems/x", nil),
		map[string]string{"id": "x"})
	h.DeleteTodo(rec, req)

	requireStatus(t, rec, http.StatusBadRequest)
}
