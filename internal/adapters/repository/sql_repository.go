package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/database"
	"github.com/taskmaster/todo/internal/ports"
)

// The DDL is portable across sqlite and postgres. Timestamps are kept as
// RFC 3339 text so both drivers round-trip them identically.
const createTodosTable = `
	CREATE TABLE IF NOT EXISTS todos (
		id         TEXT PRIMARY KEY,
		position   BIGINT NOT NULL,
		title      TEXT NOT NULL,
		due_at     TEXT NULL,
		completed  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`

const selectTodoColumns = `SELECT id, title, due_at, completed, created_at, updated_at FROM todos`

type todoRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	DueAt     sql.NullString `db:"due_at"`
	Completed bool           `db:"completed"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
}

func (row todoRow) toEntity() (entities.Todo, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return entities.Todo{}, fmt.Errorf("parse created_at of %s: %w", row.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return entities.Todo{}, fmt.Errorf("parse updated_at of %s: %w", row.ID, err)
	}

	todo := entities.Todo{
		ID:        row.ID,
		Title:     row.Title,
		Completed: row.Completed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
	if row.DueAt.Valid {
		due := row.DueAt.String
		todo.DueAt = &due
	}
	return todo, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// SQLRepository keeps todos in a keyed table, ordered by insertion position
type SQLRepository struct {
	db *database.DB
}

// NewSQLRepository creates the todos table if needed and returns the repository
func NewSQLRepository(ctx context.Context, db *database.DB) (*SQLRepository, error) {
	if _, err := db.DB.ExecContext(ctx, createTodosTable); err != nil {
		return nil, fmt.Errorf("create todos table: %w", err)
	}
	return &SQLRepository{db: db}, nil
}

var _ ports.TodoRepository = (*SQLRepository)(nil)

func (r *SQLRepository) List(ctx context.Context) ([]entities.Todo, error) {
	var rows []todoRow
	if err := r.db.DB.SelectContext(ctx, &rows, selectTodoColumns+` ORDER BY position`); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]entities.Todo, 0, len(rows))
	for _, row := range rows {
		todo, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id string) (*entities.Todo, error) {
	return getTodo(ctx, r.db.DB, id)
}

func (r *SQLRepository) Create(ctx context.Context, todo *entities.Todo) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var position int64
		if err := tx.GetContext(ctx, &position, `SELECT COALESCE(MAX(position), 0) + 1 FROM todos`); err != nil {
			return fmt.Errorf("next todo position: %w", err)
		}

		query := tx.Rebind(`
			INSERT INTO todos (id, position, title, due_at, completed, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)

		_, err := tx.ExecContext(ctx, query,
			todo.ID, position, todo.Title, nullString(todo.DueAt), todo.Completed,
			formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("create todo: %w", err)
		}
		return nil
	})
}

func (r *SQLRepository) Update(ctx context.Context, id string, mutate ports.MutateFunc) (*entities.Todo, error) {
	var updated *entities.Todo

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		todo, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := mutate(todo); err != nil {
			return err
		}

		query := tx.Rebind(`
			UPDATE todos
			SET title = ?, due_at = ?, completed = ?, updated_at = ?
			WHERE id = ?`)

		_, err = tx.ExecContext(ctx, query,
			todo.Title, nullString(todo.DueAt), todo.Completed, formatTime(todo.UpdatedAt), id,
		)
		if err != nil {
			return fmt.Errorf("update todo: %w", err)
		}

		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (r *SQLRepository) Delete(ctx context.Context, id string) (*entities.Todo, error) {
	var removed *entities.Todo

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		todo, err := getTodo(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM todos WHERE id = ?`), id); err != nil {
			return fmt.Errorf("delete todo: %w", err)
		}

		removed = todo
		return nil
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Stats reports connection pool statistics
func (r *SQLRepository) Stats() map[string]interface{} {
	return r.db.GetConnectionInfo()
}

func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

func getTodo(ctx context.Context, q queryer, id string) (*entities.Todo, error) {
	var row todoRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(selectTodoColumns+` WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrTodoNotFound
		}
		return nil, fmt.Errorf("get todo by id: %w", err)
	}

	todo, err := row.toEntity()
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
