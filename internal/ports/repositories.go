package ports

import (
	"context"

	"github.com/taskmaster/todo/internal/domain/entities"
)

// StatsReporter is implemented by repositories that can describe their
// backing store for health output
type StatsReporter interface {
	Stats() map[string]interface{}
}

// MutateFunc changes a todo in place. Returning an error aborts the write.
type MutateFunc func(todo *entities.Todo) error

// TodoRepository defines the interface for todo collection persistence.
// Implementations keep insertion order and report unknown ids with
// entities.ErrTodoNotFound.
type TodoRepository interface {
	List(ctx context.Context) ([]entities.Todo, error)
	GetByID(ctx context.Context, id string) (*entities.Todo, error)
	Create(ctx context.Context, todo *entities.Todo) error
	Update(ctx context.Context, id string, mutate MutateFunc) (*entities.Todo, error)
	Delete(ctx context.Context, id string) (*entities.Todo, error)
	Ping(ctx context.Context) error
	Close() error
}
