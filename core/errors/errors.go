// Package errors provides standardized error types and helpers for the
// responsion analyzer.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotResponding indicates lines that do not respond metrically were
	// passed to an operation that requires responsion
	ErrNotResponding = errors.New("lines do not respond")
	// ErrMismatch indicates corresponding strophes disagree in shape
	// (line counts, unit counts) where the corpus markup says they respond
	ErrMismatch = errors.New("structural mismatch")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "play", "canticum", "run")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// NotRespondingError reports a precondition violation: an accent-level
// comparison was requested for lines or strophes that do not respond
// metrically. Callers must establish responsion first.
type NotRespondingError struct {
	Responsion string // Responsion id of the canticum, if known
	Detail     string // What failed to respond (e.g., "line 301 vs 589")
}

func (e *NotRespondingError) Error() string {
	if e.Responsion != "" {
		return fmt.Sprintf("canticum %s: %s: lines do not respond", e.Responsion, e.Detail)
	}
	return fmt.Sprintf("%s: lines do not respond", e.Detail)
}

func (e *NotRespondingError) Unwrap() error {
	return ErrNotResponding
}

// MismatchError represents a structural disagreement between strophes that
// the corpus marks as responding (unequal line counts, unequal unit counts).
// Analysis recovers from these by skipping the canticum or position.
type MismatchError struct {
	Responsion string // Responsion id of the canticum
	Quantity   string // What disagrees (e.g., "lines", "units", "syllables")
	Want, Got  int    // Counts observed on the two sides
	Err        error  // Underlying error, if any
}

func (e *MismatchError) Error() string {
	if e.Responsion != "" {
		return fmt.Sprintf("canticum %s: %s mismatch: %d vs %d", e.Responsion, e.Quantity, e.Want, e.Got)
	}
	return fmt.Sprintf("%s mismatch: %d vs %d", e.Quantity, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMismatch
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation (may be redacted)
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "XML", "scansion", "line ref")
	Path    string // File path, if applicable
	Line    string // Line identifier within the document, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line != "":
		return fmt.Sprintf("failed to parse %s at %s line %s: %s", e.Format, e.Path, e.Line, e.Message)
	case e.Path != "":
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	case e.Line != "":
		return fmt.Sprintf("failed to parse %s at line %s: %s", e.Format, e.Line, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewNotResponding creates a NotRespondingError
func NewNotResponding(responsion, detail string) *NotRespondingError {
	return &NotRespondingError{
		Responsion: responsion,
		Detail:     detail,
	}
}

// NewMismatch creates a MismatchError
func NewMismatch(responsion, quantity string, want, got int) *MismatchError {
	return &MismatchError{
		Responsion: responsion,
		Quantity:   quantity,
		Want:       want,
		Got:        got,
	}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
