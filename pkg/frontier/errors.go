package frontier

import (
	"errors"
	"fmt"
)

// Error kinds returned by engine commands. Use errors.Is to test for them.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidOperation = errors.New("invalid operation")
)

// CommandError describes why a command was rejected. No state has been
// mutated when a CommandError is returned.
type CommandError struct {
	Kind    error
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CommandError) Unwrap() error {
	return e.Kind
}

func notFound(format string, args ...any) error {
	return &CommandError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalid(format string, args ...any) error {
	return &CommandError{Kind: ErrInvalidOperation, Message: fmt.Sprintf(format, args...)}
}
