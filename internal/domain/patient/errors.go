package patient

import (
	"errors"
	"fmt"
)

// Engine errors are expected, recoverable conditions. Every mutation
// validates fully before applying, so none of these leave the
// collection in a partial state.
var (
	ErrNotFound           = errors.New("patient not found")
	ErrDuplicateForDate   = errors.New("entry already recorded for date")
	ErrInvalidTemperature = errors.New("temperature reading is not a valid positive number")
	ErrNotEligible        = errors.New("patient has fewer than 3 fever-free days")
)

// ValidationError reports an admission field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
