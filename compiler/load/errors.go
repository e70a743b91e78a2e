package load

import (
	"errors"
	"strings"
)

// ErrMalformedSchema indicates a schema document that violates the grammar.
var ErrMalformedSchema = errors.New("growable: malformed schema")

// ParseError reports a shape violation in a schema document. Path addresses
// the offending value, e.g. "types[0].fields[2].since".
type ParseError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("growable: parse error")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedSchema
}

// NewParseError creates a new ParseError.
func NewParseError(path, message string) *ParseError {
	return &ParseError{Path: path, Message: message}
}

// IsParseError reports whether the error is a ParseError.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}
