package params

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidParams matches every *ValidationError with errors.Is.
var ErrInvalidParams = errors.New("invalid parameters")

// FieldError describes why one field failed validation.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// ValidationError collects the failed fields of one validation.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "invalid parameters: " + strings.Join(msgs, "; ")
}

// Is reports whether target is ErrInvalidParams.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidParams
}

// Unwrap exposes the individual field errors to errors.As.
func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Fields))
	for i, f := range e.Fields {
		errs[i] = f
	}
	return errs
}
