package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/config"
	"github.com/taskmaster/todo/internal/infrastructure/database"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.FromZap(zaptest.NewLogger(t))
}

func newFileRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "data", "todos.json"), newTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, repo.Ensure())
	return repo
}

func newSQLiteRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db, err := database.New(config.DriverSQLite, config.DatabaseConfig{
		DSN:          filepath.Join(t.TempDir(), "todos.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)

	repo, err := NewSQLRepository(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTodo(id, title string, at time.Time) *entities.Todo {
	return &entities.Todo{
		ID:        id,
		Title:     title,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestRepositories(t *testing.T) {
	factories := map[string]func(t *testing.T) ports.TodoRepository{
		"file":   func(t *testing.T) ports.TodoRepository { return newFileRepo(t) },
		"memory": func(t *testing.T) ports.TodoRepository { return NewMemoryRepository() },
		"sqlite": func(t *testing.T) ports.TodoRepository { return newSQLiteRepo(t) },
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			t.Run("empty on first use", func(t *testing.T) {
				repo := factory(t)
				todos, err := repo.List(context.Background())
				require.NoError(t, err)
				assert.Empty(t, todos)
				assert.NoError(t, repo.Ping(context.Background()))
			})

			t.Run("round trip keeps order and fields", func(t *testing.T) {
				repo := factory(t)
				ctx := context.Background()
				base := time.Date(2024, 3, 1, 9, 30, 15, 123456789, time.UTC)
				due := "2024-03-05T18:00:00Z"

				want := []entities.Todo{
					*sampleTodo("c", "third inserted first", base),
					{ID: "a", Title: "with due", DueAt: &due, Completed: true, CreatedAt: base.Add(time.Second), UpdatedAt: base.Add(time.Minute)},
					*sampleTodo("b", "last", base.Add(2*time.Second)),
				}
				for i := range want {
					require.NoError(t, repo.Create(ctx, &want[i]))
				}

				got, err := repo.List(ctx)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("List() mismatch (-want +got):\n%s", diff)
				}

				one, err := repo.GetByID(ctx, "a")
				require.NoError(t, err)
				if diff := cmp.Diff(want[1], *one); diff != "" {
					t.Errorf("GetByID() mismatch (-want +got):\n%s", diff)
				}
			})

			t.Run("update applies mutation", func(t *testing.T) {
				repo := factory(t)
				ctx := context.Background()
				now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
				require.NoError(t, repo.Create(ctx, sampleTodo("x", "before", now)))

				updated, err := repo.Update(ctx, "x", func(todo *entities.Todo) error {
					todo.Title = "after"
					todo.Completed = true
					todo.Touch(now.Add(time.Hour))
					return nil
				})
				require.NoError(t, err)
				assert.Equal(t, "after", updated.Title)
				assert.True(t, updated.Completed)

				stored, err := repo.GetByID(ctx, "x")
				require.NoError(t, err)
				assert.Equal(t, "after", stored.Title)
				assert.True(t, stored.UpdatedAt.Equal(now.Add(time.Hour)))
			})

			t.Run("failed mutation leaves record unchanged", func(t *testing.T) {
				repo := factory(t)
				ctx := context.Background()
				now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
				require.NoError(t, repo.Create(ctx, sampleTodo("x", "keep", now)))

				boom := errors.New("boom")
				_, err := repo.Update(ctx, "x", func(todo *entities.Todo) error {
					todo.Title = "discard"
					return boom
				})
				assert.ErrorIs(t, err, boom)

				stored, err := repo.GetByID(ctx, "x")
				require.NoError(t, err)
				assert.Equal(t, "keep", stored.Title)
			})

			t.Run("delete returns removed record", func(t *testing.T) {
				repo := factory(t)
				ctx := context.Background()
				now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
				require.NoError(t, repo.Create(ctx, sampleTodo("a", "one", now)))
				require.NoError(t, repo.Create(ctx, sampleTodo("b", "two", now)))
				require.NoError(t, repo.Create(ctx, sampleTodo("c", "three", now)))

				removed, err := repo.Delete(ctx, "b")
				require.NoError(t, err)
				assert.Equal(t, "two", removed.Title)

				todos, err := repo.List(ctx)
				require.NoError(t, err)
				require.Len(t, todos, 2)
				assert.Equal(t, "a", todos[0].ID)
				assert.Equal(t, "c", todos[1].ID)
			})

			t.Run("unknown id", func(t *testing.T) {
				repo := factory(t)
				ctx := context.Background()
				require.NoError(t, repo.Create(ctx, sampleTodo("a", "one", time.Now().UTC())))

				_, err := repo.GetByID(ctx, "nope")
				assert.ErrorIs(t, err, entities.ErrTodoNotFound)

				_, err = repo.Update(ctx, "nope", func(*entities.Todo) error { return nil })
				assert.ErrorIs(t, err, entities.ErrTodoNotFound)

				_, err = repo.Delete(ctx, "nope")
				assert.ErrorIs(t, err, entities.ErrTodoNotFound)

				todos, err := repo.List(ctx)
				require.NoError(t, err)
				assert.Len(t, todos, 1)
			})
		})
	}
}

func TestStatsReporters(t *testing.T) {
	file := newFileRepo(t)
	stats := file.Stats()
	assert.Equal(t, file.Path(), stats["path"])
	assert.Contains(t, stats, "size_bytes")

	sqlite := newSQLiteRepo(t)
	assert.Equal(t, config.DriverSQLite, sqlite.Stats()["driver"])

	var _ ports.StatsReporter = file
	var _ ports.StatsReporter = sqlite
}
