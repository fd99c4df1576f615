package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrFormat       = errors.New("invalid input format")
	ErrSessionLimit = errors.New("session limit reached")
)

// ValidationError reports a missing or blank field on a single record.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError returns a ValidationError for a required field.
func NewValidationError(field string) *ValidationError {
	return &ValidationError{Field: field}
}

// FormatError reports structured input that does not carry the expected fields.
// Input rejected with a FormatError must not have changed any state.
type FormatError struct {
	Missing []string
	Reason  string
}

func (e *FormatError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return e.Reason
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}
