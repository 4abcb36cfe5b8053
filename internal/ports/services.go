package ports

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/taskmaster/todo/internal/domain/entities"
)

// TodoService interface for todo management operations
type TodoService interface {
	ListTodos(ctx context.Context) ([]entities.Todo, error)
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*entities.Todo, error)
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*entities.Todo, error)
	ToggleTodo(ctx context.Context, id string) (*entities.Todo, error)
	DeleteTodo(ctx context.Context, id string) (*entities.Todo, error)
	Ping(ctx context.Context) error
	StorageStats() map[string]interface{}
}

// Request/Response Types

// CreateTodoRequest is the body of POST /api/todos. A missing or null
// title decodes as "" and is rejected by the service.
type CreateTodoRequest struct {
	Title string  `json:"title"`
	DueAt *string `json:"dueAt"`
}

// UnmarshalJSON reports non-string titles and due dates as validation
// errors instead of generic decode failures.
func (r *CreateTodoRequest) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	if raw, ok := fields["title"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &r.Title); err != nil {
			return entities.NewValidationError("title", entities.ErrTitleNotString)
		}
	}

	if raw, ok := fields["dueAt"]; ok && !isNull(raw) {
		var due string
		if err := json.Unmarshal(raw, &due); err != nil {
			return entities.NewValidationError("dueAt", entities.ErrBadDateFormat)
		}
		r.DueAt = &due
	}

	return nil
}

// UpdateTodoRequest is the body of PUT /api/todos/{id}. Only keys present
// in the body are applied.
type UpdateTodoRequest struct {
	Title    *string
	SetDueAt bool
	DueAt    *string
	// Completed is only set when the body carries a JSON boolean.
	Completed *bool
}

func (r *UpdateTodoRequest) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}

	if raw, ok := fields["title"]; ok {
		title := ""
		if !isNull(raw) {
			if err := json.Unmarshal(raw, &title); err != nil {
				return entities.NewValidationError("title", entities.ErrTitleNotString)
			}
		}
		r.Title = &title
	}

	if raw, ok := fields["dueAt"]; ok {
		r.SetDueAt = true
		r.DueAt = nil
		if !isNull(raw) {
			var due string
			if err := json.Unmarshal(raw, &due); err != nil {
				return entities.NewValidationError("dueAt", entities.ErrBadDateFormat)
			}
			r.DueAt = &due
		}
	}

	if raw, ok := fields["completed"]; ok {
		var completed bool
		if err := json.Unmarshal(raw, &completed); err == nil && !isNull(raw) {
			r.Completed = &completed
		}
	}

	return nil
}

// DataResponse wraps successful payloads
type DataResponse[T any] struct {
	Data T `json:"data"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	if isNull(data) {
		return map[string]json.RawMessage{}, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, entities.ErrInvalidBody
	}
	return fields, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
