// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"
	"flag"

	"github.com/nibzard/todo-go/internal/tasklist"
)

// Exit codes.
const (
	// Success indicates successful completion.
	Success = 0

	// Failure indicates an error with no more specific code.
	Failure = 1

	// UserError indicates bad arguments or rejected input (empty task text,
	// out-of-range positions).
	UserError = 2

	// IOError indicates the task file could not be read or written.
	IOError = 3

	// ParseError indicates the task file is not a valid task document.
	ParseError = 4

	// Interrupted indicates the process was stopped by a signal.
	Interrupted = 130
)

// FromError maps an error returned by the CLI to an exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}

	var ve *tasklist.ValidationError
	var ioErr *tasklist.IOError
	var pe *tasklist.ParseError
	var ue *UsageError
	switch {
	case errors.As(err, &ve), errors.As(err, &ue), errors.Is(err, flag.ErrHelp):
		return UserError
	case errors.As(err, &pe):
		return ParseError
	case errors.As(err, &ioErr):
		return IOError
	default:
		return Failure
	}
}

// UsageError marks an error caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error {
	return e.Err
}

// Usage wraps err as a *UsageError.
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}
