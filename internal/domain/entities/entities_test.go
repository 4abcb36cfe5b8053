package entities

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "Buy milk", want: "Buy milk"},
		{name: "trimmed", input: "  Buy milk \n", want: "Buy milk"},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "tabs", input: "\t\t", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTitle(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrEmptyTitle)
				var ve *ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "title", ve.Field)
				assert.Equal(t, "empty title", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDueAt(t *testing.T) {
	valid := []string{
		"2024-05-01",
		"2024-05-01T10:30",
		"2024-05-01T10:30:00",
		"2024-05-01T10:30:00.123456",
		"2024-05-01T10:30:00Z",
		"2024-05-01T10:30:00.5Z",
		"2024-05-01T10:30:00+08:00",
		"2024-05-01T10:30-05:00",
		"2024-05-01 10:30:00",
	}
	for _, v := range valid {
		assert.NoError(t, ValidateDueAt(v), v)
	}

	invalid := []string{
		"not-a-date",
		"",
		"2024-13-01",
		"2024-05-01T25:00:00",
		"05/01/2024",
		"2024-05-01TZ",
		"2024-05-01T10:30:00ZZ",
	}
	for _, v := range invalid {
		err := ValidateDueAt(v)
		require.Error(t, err, v)
		assert.ErrorIs(t, err, ErrBadDateFormat)
		assert.Equal(t, "bad date format", err.Error())
	}
}

func TestParseISO8601NormalizesZulu(t *testing.T) {
	z, err := ParseISO8601("2024-05-01T10:30:00Z")
	require.NoError(t, err)
	offset, err := ParseISO8601("2024-05-01T10:30:00+00:00")
	require.NoError(t, err)
	assert.True(t, z.Equal(offset))
}

func TestTodoTouchNeverGoesBackwards(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	todo := Todo{CreatedAt: created, UpdatedAt: created}

	todo.Touch(created.Add(-time.Hour))
	assert.Equal(t, created, todo.UpdatedAt)

	later := created.Add(time.Minute)
	todo.Touch(later)
	assert.Equal(t, later, todo.UpdatedAt)

	todo.Touch(created)
	assert.Equal(t, later, todo.UpdatedAt)
}

func TestTodoSetDueAt(t *testing.T) {
	var todo Todo

	due := "2024-05-01T10:30:00Z"
	require.NoError(t, todo.SetDueAt(&due))
	require.NotNil(t, todo.DueAt)
	assert.Equal(t, due, *todo.DueAt)

	due = "mutated"
	assert.Equal(t, "2024-05-01T10:30:00Z", *todo.DueAt)

	bad := "tomorrow"
	err := todo.SetDueAt(&bad)
	assert.ErrorIs(t, err, ErrBadDateFormat)
	assert.NotNil(t, todo.DueAt)

	require.NoError(t, todo.SetDueAt(nil))
	assert.Nil(t, todo.DueAt)

	empty := ""
	todo.DueAt = &due
	require.NoError(t, todo.SetDueAt(&empty))
	assert.Nil(t, todo.DueAt)
}

func TestTodoClone(t *testing.T) {
	due := "2024-05-01"
	original := Todo{ID: "a", Title: "x", DueAt: &due}
	clone := original.Clone()
	*clone.DueAt = "2025-01-01"
	assert.Equal(t, "2024-05-01", *original.DueAt)
}

func TestStorageErrorUnwrap(t *testing.T) {
	base := errors.New("disk full")
	err := &StorageError{Op: "write", Path: "data/todos.json", Err: base}
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "write data/todos.json: disk full", err.Error())
}

func TestTodoUnmarshalJSON_Timestamps(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: `{"id":"a","createdAt":"2024-01-02T03:04:05Z","updatedAt":"2024-01-02T03:04:05Z"}`,
			want:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		{
			name:  "no offset is utc",
			input: `{"id":"a","createdAt":"2024-05-01T10:30:00.123456","updatedAt":"2024-05-01T10:30:00.123456"}`,
			want:  time.Date(2024, 5, 1, 10, 30, 0, 123456000, time.UTC),
		},
		{
			name:  "space separator",
			input: `{"id":"a","createdAt":"2024-05-01 10:30:00","updatedAt":"2024-05-01 10:30:00"}`,
			want:  time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "missing",
			input: `{"id":"a"}`,
		},
		{
			name:    "garbage",
			input:   `{"id":"a","createdAt":"yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var todo Todo
			err := json.Unmarshal([]byte(tt.input), &todo)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadDateFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", todo.ID)
			assert.True(t, tt.want.Equal(todo.CreatedAt), "createdAt = %s", todo.CreatedAt)
			assert.True(t, tt.want.Equal(todo.UpdatedAt), "updatedAt = %s", todo.UpdatedAt)
		})
	}
}
