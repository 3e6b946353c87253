package model

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps one of these, so
// callers can test the kind with errors.Is.
var (
	// ErrGrammar indicates a malformed content expression, an unknown name
	// or group, or content that can never be completed.
	ErrGrammar = errors.New("content expression error")

	// ErrAttribute indicates a missing, unsupported or invalid attribute.
	ErrAttribute = errors.New("attribute error")

	// ErrStructure indicates an index or position out of range, malformed
	// JSON input, or a node whose content or marks violate its type.
	ErrStructure = errors.New("structure error")

	// ErrSplice indicates a replace operation that cannot produce a valid
	// document.
	ErrSplice = errors.New("splice error")
)

// Error is the concrete error type of this package.
type Error struct {
	// Kind is one of ErrGrammar, ErrAttribute, ErrStructure or ErrSplice.
	Kind error

	// Msg describes the failure.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap exposes both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func grammarError(format string, args ...any) *Error {
	return newError(ErrGrammar, format, args...)
}

func attributeError(format string, args ...any) *Error {
	return newError(ErrAttribute, format, args...)
}

func structureError(format string, args ...any) *Error {
	return newError(ErrStructure, format, args...)
}

func spliceError(format string, args ...any) *Error {
	return newError(ErrSplice, format, args...)
}
