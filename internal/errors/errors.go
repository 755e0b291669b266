// Package errors provides a structured error type hierarchy for wfcatalog.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - resource not found
//   - ErrInvalid - configuration or input validation failed
//   - ErrIO - file I/O error
//   - ErrParse - a metadata document could not be decoded
//   - ErrValidationFailed - the metadata validator reported at least one error
//
// Wrapped error types (add context):
//   - MetadataError{Op, Path, Err} - per-document errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	// Wrap with context using Wrap
//	return errors.Wrap(err, "scan")
//
//	// Use structured error types
//	return &errors.MetadataError{Op: "decode", Path: path, Err: errors.ErrParse}
//
//	// Check error types
//	if errors.IsValidationFailed(err) {
//	    os.Exit(1)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation of configuration or input failed.
	ErrInvalid = baseError("invalid")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrParse indicates a metadata document could not be decoded.
	ErrParse = baseError("parse error")

	// ErrValidationFailed indicates the validator found at least one error.
	ErrValidationFailed = baseError("validation failed")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// MetadataError represents an error tied to a single metadata document.
type MetadataError struct {
	// Op is the operation being performed (e.g., "read", "decode", "write").
	Op string
	// Path is the document path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *MetadataError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("metadata %s %s: %s", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("metadata %s: %s", e.Op, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error. Wrap returns nil when err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsParse reports whether err is or wraps ErrParse.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsValidationFailed reports whether err is or wraps ErrValidationFailed.
func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// AsMetadataError reports whether err can be typed as a *MetadataError.
func AsMetadataError(err error) (*MetadataError, bool) {
	var me *MetadataError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
