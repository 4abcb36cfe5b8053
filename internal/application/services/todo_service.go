package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

// TodoService handles todo-related operations. Every mutation runs its
// read-modify-write cycle under a single writer lock so concurrent
// requests in this process cannot lose each other's updates.
type TodoService struct {
	todoRepo ports.TodoRepository
	logger   *logger.Logger
	now      func() time.Time
	newID    func() string
	mu       sync.Mutex
}

// Option customizes a TodoService
type Option func(*TodoService)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) {
		s.now = now
	}
}

// WithIDGenerator overrides id generation
func WithIDGenerator(newID func() string) Option {
	return func(s *TodoService) {
		s.newID = newID
	}
}

// NewTodoService creates a new todo service
func NewTodoService(todoRepo ports.TodoRepository, logger *logger.Logger, opts ...Option) *TodoService {
	s := &TodoService{
		todoRepo: todoRepo,
		logger:   logger.WithComponent("todo_service"),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.TodoService = (*TodoService)(nil)

// ListTodos returns the whole collection in stored order
func (s *TodoService) ListTodos(ctx context.Context) ([]entities.Todo, error) {
	todos, err := s.todoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// CreateTodo validates and appends a new todo
func (s *TodoService) CreateTodo(ctx context.Context, req ports.CreateTodoRequest) (*entities.Todo, error) {
	todo := &entities.Todo{}
	if err := todo.SetTitle(req.Title); err != nil {
		return nil, err
	}
	if err := todo.SetDueAt(req.DueAt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	todo.ID = s.newID()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	s.logger.Infow("Todo created", "todo_id", todo.ID, "title", todo.Title)

	return todo, nil
}

// UpdateTodo applies the fields present in req
func (s *TodoService) UpdateTodo(ctx context.Context, id string, req ports.UpdateTodoRequest) (*entities.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.todoRepo.Update(ctx, id, func(todo *entities.Todo) error {
		if req.Title != nil {
			if err := todo.SetTitle(*req.Title); err != nil {
				return err
			}
		}
		if req.SetDueAt {
			if err := todo.SetDueAt(req.DueAt); err != nil {
				return err
			}
		}
		if req.Completed != nil {
			todo.Completed = *req.Completed
		}
		todo.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, s.wrap("update", id, err)
	}

	s.logger.Infow("Todo updated", "todo_id", updated.ID, "completed", updated.Completed)

	return updated, nil
}

// ToggleTodo flips the completed flag
func (s *TodoService) ToggleTodo(ctx context.Context, id string) (*entities.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.todoRepo.Update(ctx, id, func(todo *entities.Todo) error {
		todo.Completed = !todo.Completed
		todo.Touch(s.now())
		return nil
	})
	if err != nil {
		return nil, s.wrap("toggle", id, err)
	}

	s.logger.Infow("Todo toggled", "todo_id", updated.ID, "completed", updated.Completed)

	return updated, nil
}

// DeleteTodo removes a todo and returns it
func (s *TodoService) DeleteTodo(ctx context.Context, id string) (*entities.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.todoRepo.Delete(ctx, id)
	if err != nil {
		return nil, s.wrap("delete", id, err)
	}

	s.logger.Infow("Todo deleted", "todo_id", removed.ID)

	return removed, nil
}

// Ping reports whether the backing store is reachable
func (s *TodoService) Ping(ctx context.Context) error {
	return s.todoRepo.Ping(ctx)
}

// StorageStats describes the backing store, or returns nil when the
// repository has nothing to report
func (s *TodoService) StorageStats() map[string]interface{} {
	if reporter, ok := s.todoRepo.(ports.StatsReporter); ok {
		return reporter.Stats()
	}
	return nil
}

// wrap leaves domain errors untouched so the HTTP layer can map them
func (s *TodoService) wrap(op, id string, err error) error {
	var ve *entities.ValidationError
	if errors.As(err, &ve) || errors.Is(err, entities.ErrTodoNotFound) {
		return err
	}
	return fmt.Errorf("failed to %s todo %s: %w", op, id, err)
}
