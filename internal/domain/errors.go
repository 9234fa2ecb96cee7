package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidInput    = errors.New("invalid input")
)

// Participation state violations.
var (
	ErrAlreadyJoined = errors.New("already joined")
	ErrEventFull     = errors.New("event is full")
	ErrNotJoined     = errors.New("not joined")
)

// ErrInvalidCredentials is returned by a CredentialVerifier that could not produce an identity.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports the first field that failed validation.
// errors.Is(err, ErrInvalidInput) is true for every ValidationError.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewValidationError returns a ValidationError for field with the given message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// StorageError wraps an opaque persistence failure. It is never retried by the core.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError wraps err as a StorageError for op. A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
