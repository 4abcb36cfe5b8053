package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/taskmaster/todo/internal/domain/entities"
	"github.com/taskmaster/todo/internal/infrastructure/logger"
	"github.com/taskmaster/todo/internal/ports"
)

const collectionSchemaURL = "mem://schemas/todos.json"

// collectionSchema only pins the shape the decoder relies on. Records with
// extra keys are kept.
const collectionSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id"],
		"properties": {
			"id":        {"type": "string"},
			"title":     {"type": "string"},
			"dueAt":     {"type": ["string", "null"]},
			"completed": {"type": "boolean"},
			"createdAt": {"type": "string"},
			"updatedAt": {"type": "string"}
		}
	}
}`

// FileRepository stores the whole todo collection as a JSON array in a
// single file. Every mutation reads the full file, changes it in memory
// and replaces the file atomically.
type FileRepository struct {
	path   string
	schema *jsonschema.Schema
	logger *logger.Logger
}

// NewFileRepository creates a file repository for path
func NewFileRepository(path string, logger *logger.Logger) (*FileRepository, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(collectionSchemaURL, strings.NewReader(collectionSchema)); err != nil {
		return nil, fmt.Errorf("add collection schema: %w", err)
	}
	schema, err := compiler.Compile(collectionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile collection schema: %w", err)
	}

	return &FileRepository{
		path:   path,
		schema: schema,
		logger: logger.WithComponent("file_repository"),
	}, nil
}

var _ ports.TodoRepository = (*FileRepository)(nil)

// Path returns the canonical file location
func (r *FileRepository) Path() string {
	return r.path
}

// Ensure creates the data directory and writes an empty collection when
// the file does not exist yet.
func (r *FileRepository) Ensure() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return &entities.StorageError{Op: "mkdir", Path: filepath.Dir(r.path), Err: err}
	}

	if _, err := os.Stat(r.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &entities.StorageError{Op: "stat", Path: r.path, Err: err}
	}

	return r.write([]entities.Todo{})
}

func (r *FileRepository) List(ctx context.Context) ([]entities.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.read(), nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entities.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	todos := r.read()
	idx := findTodoIndex(todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}
	todo := todos[idx]
	return &todo, nil
}

func (r *FileRepository) Create(ctx context.Context, todo *entities.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	todos := append(r.read(), todo.Clone())
	return r.write(todos)
}

func (r *FileRepository) Update(ctx context.Context, id string, mutate ports.MutateFunc) (*entities.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	todos := r.read()
	idx := findTodoIndex(todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}

	updated := todos[idx].Clone()
	if err := mutate(&updated); err != nil {
		return nil, err
	}
	todos[idx] = updated

	if err := r.write(todos); err != nil {
		return nil, err
	}

	result := updated.Clone()
	return &result, nil
}

func (r *FileRepository) Delete(ctx context.Context, id string) (*entities.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	todos := r.read()
	idx := findTodoIndex(todos, id)
	if idx == -1 {
		return nil, entities.ErrTodoNotFound
	}

	removed := todos[idx]
	todos = append(todos[:idx], todos[idx+1:]...)

	if err := r.write(todos); err != nil {
		return nil, err
	}

	return &removed, nil
}

// Ping checks that the data directory is present
func (r *FileRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		return &entities.StorageError{Op: "stat", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &entities.StorageError{Op: "stat", Path: dir, Err: errors.New("not a directory")}
	}
	return nil
}

// Stats reports the file location and size
func (r *FileRepository) Stats() map[string]interface{} {
	stats := map[string]interface{}{"path": r.path}
	if info, err := os.Stat(r.path); err == nil {
		stats["size_bytes"] = info.Size()
		stats["modified"] = info.ModTime().UTC().Format(time.RFC3339)
	}
	return stats
}

func (r *FileRepository) Close() error {
	return nil
}

// read loads the collection. It never fails: any read or decode problem
// goes through readFallback and yields an empty collection.
func (r *FileRepository) read() []entities.Todo {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return r.readFallback(&entities.StorageError{Op: "read", Path: r.path, Err: err})
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return r.readFallback(&entities.StorageError{Op: "parse", Path: r.path, Err: err})
	}
	if err := r.schema.Validate(doc); err != nil {
		return r.readFallback(&entities.StorageError{Op: "validate", Path: r.path, Err: err})
	}

	todos := []entities.Todo{}
	if err := json.Unmarshal(data, &todos); err != nil {
		return r.readFallback(&entities.StorageError{Op: "decode", Path: r.path, Err: err})
	}

	return todos
}

func (r *FileRepository) readFallback(err error) []entities.Todo {
	if errors.Is(err, fs.ErrNotExist) {
		r.logger.Debugw("Todo storage file missing, using empty collection", "path", r.path)
	} else {
		r.logger.LogStorageFallback(r.path, err)
	}
	return []entities.Todo{}
}

// write replaces the file atomically: the collection goes to a temporary
// sibling first, which is then renamed over the canonical path.
func (r *FileRepository) write(todos []entities.Todo) error {
	if todos == nil {
		todos = []entities.Todo{}
	}

	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return &entities.StorageError{Op: "encode", Path: r.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return &entities.StorageError{Op: "write", Path: r.path, Err: err}
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		os.Remove(tmpPath)
		return &entities.StorageError{Op: "write", Path: tmpPath, Err: err}
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return &entities.StorageError{Op: "write", Path: tmpPath, Err: err}
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return &entities.StorageError{Op: "replace", Path: r.path, Err: err}
	}

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func findTodoIndex(todos []entities.Todo, id string) int {
	for i, todo := range todos {
		if todo.ID == id {
			return i
		}
	}
	return -1
}
