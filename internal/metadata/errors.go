package metadata

import (
	"errors"
	"fmt"
)

// ErrMissingField reports that a required CSV column was absent.
var ErrMissingField = errors.New("missing field")

// MissingFieldError names the column that could not be found.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// Is lets errors.Is match ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ErrorKind classifies the error for CLI hints.
func (e *MissingFieldError) ErrorKind() string {
	return "validation"
}
