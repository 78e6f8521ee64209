package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the referenced request or transfer does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyProcessed means the record left pending status earlier.
	ErrAlreadyProcessed = errors.New("request already processed")
)

// ValidationError carries a user-facing message for a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
