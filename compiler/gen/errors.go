// Package gen resolves parsed schemas into an immutable graph model and
// drives source emission for the configured target languages.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrValidationFailed indicates a schema validation failure.
	ErrValidationFailed = errors.New("growable: validation failed")
	// ErrEmissionFailed indicates a source emission failure.
	ErrEmissionFailed = errors.New("growable: emission failed")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("growable: missing configuration")
)

// Reason classifies a validation failure.
type Reason string

// Validation failure reasons.
const (
	ReasonDuplicateName        Reason = "duplicate name"
	ReasonDuplicateField       Reason = "duplicate field"
	ReasonCyclicInheritance    Reason = "cyclic inheritance"
	ReasonIncompleteVersioning Reason = "incomplete versioning"
	ReasonBadVersion           Reason = "unparseable version"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Reason  Reason
	Type    string // Definition name
	Field   string // Field name (if applicable)
	Value   any    // Offending value (if applicable)
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("growable: validation error")
	if e.Reason != "" {
		b.WriteString(" (")
		b.WriteString(string(e.Reason))
		b.WriteString(")")
	}
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (value: %v)", e.Value)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(reason Reason, typeName, field, message string) *ValidationError {
	return &ValidationError{
		Reason:  reason,
		Type:    typeName,
		Field:   field,
		Message: message,
	}
}

// EmissionError represents a source emission error.
type EmissionError struct {
	Target  string // Target language (if applicable)
	Type    string // Definition name
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EmissionError) Error() string {
	var b strings.Builder
	b.WriteString("growable: emission error")
	if e.Target != "" {
		b.WriteString(" for target ")
		b.WriteString(e.Target)
	}
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *EmissionError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for EmissionError.
func (e *EmissionError) Is(target error) bool {
	return target == ErrEmissionFailed
}

// NewEmissionError creates a new EmissionError.
func NewEmissionError(target, typeName, message string, cause error) *EmissionError {
	return &EmissionError{
		Target:  target,
		Type:    typeName,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("growable: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("growable: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsEmissionError reports whether the error is an EmissionError.
func IsEmissionError(err error) bool {
	var emitErr *EmissionError
	return errors.As(err, &emitErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// ValidationReason extracts the failure reason from a ValidationError,
// or the empty Reason when err is not one.
func ValidationReason(err error) Reason {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Reason
	}
	return ""
}
