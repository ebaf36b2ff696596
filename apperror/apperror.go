package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the operation outcome taxonomy. Callers classify with
// errors.Is and map each class to a transport-level response.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

// AppError wraps a sentinel with a human-readable message and an optional
// offending field.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthenticated reports a request with no resolvable actor.
func Unauthenticated() *AppError {
	return &AppError{Err: ErrUnauthenticated, Message: "authentication required"}
}

// InvalidInput reports a malformed or out-of-range input value.
func InvalidInput(field, message string) *AppError {
	return &AppError{Err: ErrInvalidInput, Message: message, Field: field}
}

// NotFound reports an absent referenced entity.
func NotFound(resource string, id any) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s %v not found", resource, id)}
}

// Forbidden reports an actor lacking permission on an existing entity.
func Forbidden(message string) *AppError {
	return &AppError{Err: ErrForbidden, Message: message}
}

// Conflict reports a uniqueness violation surfaced from the store.
func Conflict(message string) *AppError {
	return &AppError{Err: ErrConflict, Message: message}
}
