package repository

import (
	"context"
	"sync"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/ports"
)

// MemoryRepository keeps todos in process memory. Nothing survives a restart.
type MemoryRepository struct {
	mu    sync.RWMutex
	todos []entities.Todo
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository(seed ...entities.Todo) *MemoryRepository {
	r := &MemoryRepository{todos: make([]entities.Todo, 0, len(seed))}
	for _, todo := range seed {
		r.todos = append(r.todos, todo.Clone())
	}
	return r
}

var _ ports.TodoRepository = (*MemoryRepository)(nil)

func (r *MemoryRepository) List(ctx context.Context) ([]entities.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.Todo, 0, len(r.todos))
	for _, todo := range r.todos {
		out = append(out, todo.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*entities.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := findTodoIndex(r.todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}
	todo := r.todos[idx].Clone()
	return &todo, nil
}

func (r *MemoryRepository) Create(ctx context.Context, todo *entities.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos = append(r.todos, todo.Clone())
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, id string, mutate ports.MutateFunc) (*entities.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := findTodoIndex(r.todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}

	updated := r.todos[idx].Clone()
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	r.todos[idx] = updated

	result := updated.Clone()
	return &result, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (*entities.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := findTodoIndex(r.todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}

	removed := r.todos[idx]
	r.todos = append(r.todos[:idx:idx], r.todos[idx+1:]...)
	return &removed, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryRepository) Close() error {
	return nil
}
