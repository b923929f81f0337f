// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"
)

// TodoResponse represents a single todo in HTTP responses. Name is null when
// the todo has no name.
type TodoResponse struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name"`
	IsComplete bool    `json:"isComplete"`
}

// ToTodoResponse converts a domain Todo entity to an HTTP response DTO.
func ToTodoResponse(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:         t.ID,
		Name:       t.Name,
		IsComplete: t.IsComplete,
	}
}

// ToTodoListResponse converts a slice of domain Todo entities to the bare JSON
// array the todo routes return. An empty input yields an empty, non-nil slice
// so it encodes as [] rather than null.
func ToTodoListResponse(todos []todo.Todo) []TodoResponse {
	items := make([]TodoResponse, len(todos))
	for i := range todos {
		items[i] = ToTodoResponse(&todos[i])
	}
	return items
}
