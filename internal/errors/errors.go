// Package errors defines the sentinel and typed errors shared across the
// service.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound is returned when a document is not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)

// DocumentNotFoundError is a document not found error carrying the ID.
type DocumentNotFoundError struct {
	ID uint
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document with ID %d not found", e.ID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError.
func NewDocumentNotFoundError(id uint) *DocumentNotFoundError {
	return &DocumentNotFoundError{ID: id}
}

// ValidationError is an input validation error with field context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
