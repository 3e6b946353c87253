package script

import (
	"errors"
	"fmt"
)

// Errors for script execution.
var (
	// ErrClosed is returned when validating with a closed validator.
	ErrClosed = errors.New("script validator is closed")

	// ErrTimeout is returned when a snippet runs longer than its timeout.
	ErrTimeout = errors.New("script execution timeout")

	// ErrRejected is wrapped by every RejectedError.
	ErrRejected = errors.New("value rejected by script")
)

// CompileError is returned when a snippet does not parse.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// RuntimeError is returned when a snippet raises a Lua error.
type RuntimeError struct {
	Name string
	Err  error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("run %s: %v", e.Name, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// RejectedError is returned when a snippet rejects a value.
type RejectedError struct {
	Name    string
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: value rejected", e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *RejectedError) Unwrap() error { return ErrRejected }
