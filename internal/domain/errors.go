package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is matched by every *NotFoundError via errors.Is.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is wrapped by a ValidationError when a status
	// change is not allowed by the task state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports a rejected input field. The host is expected to
// show it next to the field and let the user retry.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NotFoundError reports a stale or unknown identifier.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationErrors aggregates several field errors, e.g. from a bulk import.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msg := fmt.Sprintf("validation failed (%d errors):", len(v))
	for _, e := range v {
		msg += "\n  - " + e.Error()
	}
	return msg
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v ValidationErrors) Unwrap() []error {
	return v
}
