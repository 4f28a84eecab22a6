package worklog

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed entry input.
	ErrValidation = errors.New("worklog: invalid entry")
	// ErrNotFound marks an update referencing an id the store does not hold.
	ErrNotFound = errors.New("worklog: entry not found")
	// ErrUnavailable marks storage or connection failures.
	ErrUnavailable = errors.New("worklog: repository unavailable")
)

// Field names an entity field in validation errors.
type Field string

const (
	FieldID       Field = "id"
	FieldDate     Field = "date"
	FieldTask     Field = "task"
	FieldDuration Field = "duration"
)

// ValidationError reports which field of an entry was rejected.
type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("worklog: %s %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound wraps ErrNotFound with the offending id.
func NotFound(id int64) error {
	return fmt.Errorf("%w: id %d", ErrNotFound, id)
}

// Unavailable wraps err with ErrUnavailable, keeping both in the chain.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
