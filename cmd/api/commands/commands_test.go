package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/domain/entities"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := &cobra.Command{Use: "todo", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(NewTodosCommand(), NewVersionCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func decodeCLITodo(t *testing.T, out string) entities.Todo {
	t.Helper()
	var todo entities.Todo
	require.NoError(t, json.Unmarshal([]byte(out), &todo), out)
	return todo
}

func TestTodosCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "todos.json"))

	out, err := runCLI(t, "todos", "add", "Buy milk", "--due", "2024-05-01")
	require.NoError(t, err)
	created := decodeCLITodo(t, out)
	assert.Equal(t, "Buy milk", created.Title)
	require.NotNil(t, created.DueAt)
	assert.Equal(t, "2024-05-01", *created.DueAt)

	out, err = runCLI(t, "todos", "update", created.ID, "--completed", "--due", "")
	require.NoError(t, err)
	updated := decodeCLITodo(t, out)
	assert.True(t, updated.Completed)
	assert.Nil(t, updated.DueAt)

	out, err = runCLI(t, "todos", "toggle", created.ID)
	require.NoError(t, err)
	assert.False(t, decodeCLITodo(t, out).Completed)

	out, err = runCLI(t, "todos", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, created.ID)
	assert.Contains(t, out, "Buy milk")

	out, err = runCLI(t, "todos", "list", "--json")
	require.NoError(t, err)
	var todos []entities.Todo
	require.NoError(t, json.Unmarshal([]byte(out), &todos))
	assert.Len(t, todos, 1)

	_, err = runCLI(t, "todos", "delete", created.ID)
	require.NoError(t, err)

	out, err = runCLI(t, "todos", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestTodosCommand_Errors(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "todos.json"))

	_, err := runCLI(t, "todos", "add", "   ")
	assert.ErrorIs(t, err, entities.ErrEmptyTitle)

	_, err = runCLI(t, "todos", "toggle", "nope")
	assert.ErrorIs(t, err, entities.ErrTodoNotFound)

	_, err = runCLI(t, "todos", "update", "nope")
	assert.ErrorContains(t, err, "nothing to update")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "todo "+Version)
}
