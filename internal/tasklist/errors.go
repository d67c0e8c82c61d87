package tasklist

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned (wrapped in a *ValidationError) when a task would
// be created with no text.
var ErrEmptyText = errors.New("task text is empty")

// ErrIndexOutOfRange is returned (wrapped in a *ValidationError) when a
// selection refers to a position outside the collection.
var ErrIndexOutOfRange = errors.New("index out of range")

// ValidationError reports input that was rejected before any mutation.
type ValidationError struct {
	Field string // input that failed, e.g. "text" or "indices[2]"
	Err   error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IOError reports a failed read or write of the task file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s task file %s: %s", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError reports a task file that is not a valid task document.
type ParseError struct {
	Path     string
	Location string // dotted path inside the document, empty for syntax errors
	Err      error
}

func (e *ParseError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("parse task file %s: %s: %s", e.Path, e.Location, e.Err)
	}
	return fmt.Sprintf("parse task file %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
