package ports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/todo/internal/domain/entities"
)

func TestCreateTodoRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantTitle string
		wantDue   *string
		wantErr   error
	}{
		{name: "title only", body: `{"title":"Buy milk"}`, wantTitle: "Buy milk"},
		{name: "with due", body: `{"title":"x","dueAt":"2024-01-01"}`, wantTitle: "x", wantDue: strPtr("2024-01-01")},
		{name: "null due", body: `{"title":"x","dueAt":null}`, wantTitle: "x"},
		{name: "missing title", body: `{}`},
		{name: "null title", body: `{"title":null}`},
		{name: "unknown keys ignored", body: `{"title":"x","priority":3}`, wantTitle: "x"},
		{name: "numeric title", body: `{"title":42}`, wantErr: entities.ErrTitleNotString},
		{name: "numeric due", body: `{"title":"x","dueAt":5}`, wantErr: entities.ErrBadDateFormat},
		{name: "array body", body: `[1,2]`, wantErr: entities.ErrInvalidBody},
		{name: "string body", body: `"hello"`, wantErr: entities.ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateTodoRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, req.Title)
			assert.Equal(t, tt.wantDue, req.DueAt)
		})
	}
}

func TestUpdateTodoRequest_UnmarshalJSON(t *testing.T) {
	t.Run("empty body applies nothing", func(t *testing.T) {
		var req UpdateTodoRequest
		require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
		assert.Nil(t, req.Title)
		assert.False(t, req.SetDueAt)
		assert.Nil(t, req.Completed)
	})

	t.Run("all fields", func(t *testing.T) {
		var req UpdateTodoRequest
		require.NoError(t, json.Unmarshal([]byte(`{"title":"new","dueAt":"2024-02-02","completed":true}`), &req))
		require.NotNil(t, req.Title)
		assert.Equal(t, "new", *req.Title)
		assert.True(t, req.SetDueAt)
		require.NotNil(t, req.DueAt)
		assert.Equal(t, "2024-02-02", *req.DueAt)
		require.NotNil(t, req.Completed)
		assert.True(t, *req.Completed)
	})

	t.Run("null due clears", func(t *testing.T) {
		var req UpdateTodoRequest
		require.NoError(t, json.Unmarshal([]byte(`{"dueAt":null}`), &req))
		assert.True(t, req.SetDueAt)
		assert.Nil(t, req.DueAt)
	})

	t.Run("null title is present and empty", func(t *testing.T) {
		var req UpdateTodoRequest
		require.NoError(t, json.Unmarshal([]byte(`{"title":null}`), &req))
		require.NotNil(t, req.Title)
		assert.Equal(t, "", *req.Title)
	})

	t.Run("non-boolean completed is ignored", func(t *testing.T) {
		for _, body := range []string{`{"completed":"yes"}`, `{"completed":1}`, `{"completed":null}`} {
			var req UpdateTodoRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req), body)
			assert.Nil(t, req.Completed, body)
		}
	})

	t.Run("false completed is applied", func(t *testing.T) {
		var req UpdateTodoRequest
		require.NoError(t, json.Unmarshal([]byte(`{"completed":false}`), &req))
		require.NotNil(t, req.Completed)
		assert.False(t, *req.Completed)
	})

	t.Run("type errors", func(t *testing.T) {
		var req UpdateTodoRequest
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"title":["a"]}`), &req), entities.ErrTitleNotString)
		assert.ErrorIs(t, json.Unmarshal([]byte(`{"dueAt":true}`), &req), entities.ErrBadDateFormat)
		assert.ErrorIs(t, json.Unmarshal([]byte(`42`), &req), entities.ErrInvalidBody)
	})
}

func strPtr(s string) *string { return &s }
