package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Entity-specific errors wrap it so callers can test with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when a required ID is missing or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required text content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrTooLong is returned when a text field exceeds its maximum length.
	ErrTooLong = errors.New("value too long")

	// ErrInvalidTaskStatus is returned when a task status is not recognized.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidTaskPriority is returned when a task priority is not recognized.
	ErrInvalidTaskPriority = errors.New("invalid task priority")

	// ErrInvalidMemberRole is returned when a project member role is not recognized.
	ErrInvalidMemberRole = errors.New("invalid member role")
)

// invalid wraps a field-specific error so that it matches both itself and ErrValidation.
func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// ValidationError describes which field of an entity failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

// Unwrap exposes both the field error and ErrValidation to errors.Is.
func (e *ValidationError) Unwrap() []error {
	return []error{e.Err, ErrValidation}
}
