package datetime

import (
	"errors"
	"fmt"
)

// ErrNoPendingDate is returned when a time arrives without a preceding date.
var ErrNoPendingDate = errors.New("no date chosen")

// ValidationError reports an out-of-range value from a picker.
type ValidationError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
