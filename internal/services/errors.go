package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing project, task, membership or invitation.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied marks an actor lacking the ownership or membership
	// an operation requires.
	ErrPermissionDenied = errors.New("permission denied")
)

// ValidationError is malformed or constraint-violating input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func denied(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}
