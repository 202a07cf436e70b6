package services

import (
	"errors"
	"fmt"
)

// Cross-service sentinel errors. Handlers translate these to HTTP
// statuses; nothing else inspects them.
var (
	ErrPermissionDenied = errors.New("access denied")
)

// ValidationError marks missing or malformed input. The message is safe
// to return to the caller.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func requireField(value, name string) error {
	if value == "" {
		return NewValidationError("field '%s' is required", name)
	}
	return nil
}
