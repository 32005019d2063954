package assessment

import (
	"errors"
	"fmt"
)

var (
	// ErrLookup is returned when a categorical answer is not in its table.
	ErrLookup = errors.New("label not recognized")
	// ErrInvalidInput is returned for out-of-domain numeric answers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrModelUnavailable is returned when the classifier or label decoder
	// could not be loaded or reached.
	ErrModelUnavailable = errors.New("model unavailable")
)

// LookupError names the field and label that failed to map.
type LookupError struct {
	Field string
	Label string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: label %q not recognized", e.Field, e.Label)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

func invalidInput(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, fmt.Sprintf(format, args...))
}
