package assist

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigurationEmpty is returned when no AI agent is configured for the office.
	ErrConfigurationEmpty = errors.New("no AI agent configured")

	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// InputError is a validation failure with a message suitable for the caller.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}
