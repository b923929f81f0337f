package handlers

import (
	"fmt"
	"net/http"

	"github.com/jsamuelsen11/go-todo-minimal-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/ports"
)

// TodoHandler handles HTTP requests for the /todoitems collection.
type TodoHandler struct {
	svc ports.TodoService
}

// NewTodoHandler creates a new TodoHandler with the given service port.
func NewTodoHandler(svc ports.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// ListTodos handles GET /todoitems.
//
//	@Summary	List todo items
//	@Tags		todoitems
//	@Produce	json
//	@Success	200	{array}		dto.TodoResponse
//	@Failure	502	{object}	dto.ErrorResponse
//	@Router		/todoitems [get]
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListTodos(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// ListCompletedTodos handles GET /todoitems/complete.
//
//	@Summary	List completed todo items
//	@Tags		todoitems
//	@Produce	json
//	@Success	200	{array}		dto.TodoResponse
//	@Failure	502	{object}	dto.ErrorResponse
//	@Router		/todoitems/complete [get]
func (h *TodoHandler) ListCompletedTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.svc.ListCompletedTodos(r.Context())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoListResponse(todos))
}

// GetTodo handles GET /todoitems/{id}.
//
//	@Summary	Get a todo item
//	@Tags		todoitems
//	@Produce	json
//	@Param		id	path		int	true	"Todo ID"
//	@Success	200	{object}	dto.TodoResponse
//	@Failure	400	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/todoitems/{id} [get]
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t, err := h.svc.GetTodo(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(t))
}

// CreateTodo handles POST /todoitems.
//
//	@Summary	Create a todo item
//	@Tags		todoitems
//	@Accept		json
//	@Produce	json
//	@Param		todo	body		dto.TodoRequest	true	"Todo item; id is ignored"
//	@Success	201		{object}	dto.TodoResponse
//	@Header		201		{string}	Location	"/todoitems/{id}"
//	@Failure	400		{object}	dto.ErrorResponse
//	@Router		/todoitems [post]
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	t := decodeTodo(w, r)
	if t == nil {
		return
	}

	created, err := h.svc.CreateTodo(r.Context(), t)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/todoitems/%d", created.ID))
	writeJSON(w, http.StatusCreated, dto.ToTodoResponse(created))
}

// ReplaceTodo handles PUT /todoitems/{id}.
//
//	@Summary	Replace a todo item's name and completion flag
//	@Tags		todoitems
//	@Accept		json
//	@Param		id		path	int				true	"Todo ID"
//	@Param		todo	body	dto.TodoRequest	true	"Replacement values; id is ignored"
//	@Success	204
//	@Failure	400	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/todoitems/{id} [put]
func (h *TodoHandler) ReplaceTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	t := decodeTodo(w, r)
	if t == nil {
		return
	}

	if _, err := h.svc.ReplaceTodo(r.Context(), id, t); err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTodo handles DELETE /todoitems/{id}.
//
//	@Summary	Delete a todo item
//	@Tags		todoitems
//	@Produce	json
//	@Param		id	path		int	true	"Todo ID"
//	@Success	200	{object}	dto.TodoResponse	"The deleted item"
//	@Failure	400	{object}	dto.ErrorResponse
//	@Failure	404	{object}	dto.ErrorResponse
//	@Router		/todoitems/{id} [delete]
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	deleted, err := h.svc.DeleteTodo(r.Context(), id)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTodoResponse(deleted))
}
