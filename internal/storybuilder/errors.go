package storybuilder

import (
	"errors"
	"fmt"
)

var (
	// ErrCouldNotLoad reports any fetch failure of the story or its
	// sections. Load still returns an empty document alongside it.
	ErrCouldNotLoad = errors.New("could not load story")

	// ErrStoryNotFound is returned by LoadBySlug when no story has the slug.
	ErrStoryNotFound = errors.New("story not found")
)

// SaveError is the single failure signal of Save. Nothing it wraps was
// committed.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return fmt.Sprintf("failed to save story: %v", e.Err) }

func (e *SaveError) Unwrap() error { return e.Err }

// IsSaveError checks if err is a SaveError (including wrapped errors)
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}

// ValidationError represents a document that cannot be saved as given.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
