package schemadef

import (
	"errors"
	"fmt"
)

// Errors returned by definition loading.
var (
	// ErrIncludeDepthExceeded indicates too many nested @include directives.
	ErrIncludeDepthExceeded = errors.New("include depth exceeded")

	// ErrIncludeCycle indicates a file that includes itself, directly or
	// through other includes.
	ErrIncludeCycle = errors.New("include cycle")

	// ErrUnknownFormat indicates a file extension with no known parser.
	ErrUnknownFormat = errors.New("unknown definition format")

	// ErrInvalidDefinition indicates a definition that parses but does not
	// describe a schema.
	ErrInvalidDefinition = errors.New("invalid schema definition")
)

// ParseError represents an error while parsing a definition file.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDefinition, fmt.Sprintf(format, args...))
}
