package store

import (
	"errors"
	"fmt"
)

// ErrInvalidSettings is returned when a settings patch would produce an invalid record.
var ErrInvalidSettings = errors.New("invalid settings")

// ValidationError reports a malformed backup payload. It is always returned
// before any existing data is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid backup: %s", e.Reason)
	}
	return fmt.Sprintf("invalid backup: %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
