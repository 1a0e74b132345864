package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrNoteNotFound      = fmt.Errorf("note %w", ErrNotFound)
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidOrExpired  = errors.New("invalid or expired token")
	ErrMissingField      = errors.New("missing required field")
	ErrMismatch          = errors.New("new password and confirmation do not match")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInternal          = errors.New("internal server error")
)

// ValidationError represents a validation error with field details
type ValidationError struct {
	Field   string
	Message string
	Missing bool
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is match a missing-field ValidationError against ErrMissingField.
func (e ValidationError) Is(target error) bool {
	if target == ErrMissingField {
		return e.Missing
	}
	return target == ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewMissingFieldError reports a required field that was absent or empty.
func NewMissingFieldError(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
		Missing: true,
	}
}

// Is and As re-export the standard helpers so callers importing this
// package under its own name still have them.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }
