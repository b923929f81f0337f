package gormstore

import "github.com/jsamuelsen11/go-todo-minimal-api/internal/domain/todo"

// todoModel is the row shape of the todos table.
type todoModel struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	Name       *string `gorm:"size:256"`
	IsComplete bool    `gorm:"not null;index"`
}

func (todoModel) TableName() string {
	return "todos"
}

func toModel(t *todo.Todo) todoModel {
	c := t.Clone()
	return todoModel{Name: c.Name, IsComplete: c.IsComplete}
}

func (m *todoModel) toDomain() todo.Todo {
	return todo.Todo{ID: m.ID, Name: m.Name, IsComplete: m.IsComplete}
}
