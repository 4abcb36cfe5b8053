package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors
var (
	ErrTodoNotFound   = errors.New("todo not found")
	ErrEmptyTitle     = errors.New("empty title")
	ErrTitleNotString = errors.New("title must be a string")
	ErrBadDateFormat  = errors.New("bad date format")
	ErrInvalidBody    = errors.New("invalid request body")
)

// Todo represents a single task record
type Todo struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	DueAt     *string   `json:"dueAt" db:"due_at"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// UnmarshalJSON reads createdAt and updatedAt in any ISO-8601 form
// ParseISO8601 accepts. Values without an offset are taken as UTC.
func (t *Todo) UnmarshalJSON(data []byte) error {
	type todoFields Todo
	aux := struct {
		*todoFields
		CreatedAt *string `json:"createdAt"`
		UpdatedAt *string `json:"updatedAt"`
	}{todoFields: (*todoFields)(t)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if t.CreatedAt, err = parseTimestamp(aux.CreatedAt); err != nil {
		return fmt.Errorf("createdAt: %w", err)
	}
	if t.UpdatedAt, err = parseTimestamp(aux.UpdatedAt); err != nil {
		return fmt.Errorf("updatedAt: %w", err)
	}
	return nil
}

func parseTimestamp(value *string) (time.Time, error) {
	if value == nil || *value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, *value); err == nil {
		return ts, nil
	}
	return ParseISO8601(*value)
}

// Clone returns a deep copy so callers never share the DueAt pointer
func (t Todo) Clone() Todo {
	if t.DueAt != nil {
		due := *t.DueAt
		t.DueAt = &due
	}
	return t
}

// Touch sets UpdatedAt to now, never moving it behind CreatedAt or the
// previous UpdatedAt.
func (t *Todo) Touch(now time.Time) {
	if now.Before(t.UpdatedAt) {
		now = t.UpdatedAt
	}
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// SetTitle validates and assigns a new title
func (t *Todo) SetTitle(title string) error {
	trimmed, err := ValidateTitle(title)
	if err != nil {
		return err
	}
	t.Title = trimmed
	return nil
}

// SetDueAt validates and assigns a due date. A nil or empty value clears it.
func (t *Todo) SetDueAt(dueAt *string) error {
	if dueAt == nil || *dueAt == "" {
		t.DueAt = nil
		return nil
	}
	if err := ValidateDueAt(*dueAt); err != nil {
		return err
	}
	due := *dueAt
	t.DueAt = &due
	return nil
}

// ValidationError reports client-supplied data that failed a precondition
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err for field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// StorageError reports a failed read or write of the backing store
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidateTitle trims title and rejects it when nothing is left
func ValidateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", NewValidationError("title", ErrEmptyTitle)
	}
	return trimmed, nil
}

// Accepted ISO-8601 shapes once a trailing "Z" has been rewritten to
// "+00:00". Fractional seconds are accepted after the seconds field by
// time.Parse even though the layouts do not list them.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISO8601 parses an ISO-8601 date or date-time string
func ParseISO8601(value string) (time.Time, error) {
	normalized := value
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadDateFormat
}

// ValidateDueAt checks that value is an ISO-8601 timestamp
func ValidateDueAt(value string) error {
	if _, err := ParseISO8601(value); err != nil {
		return NewValidationError("dueAt", ErrBadDateFormat)
	}
	return nil
}
