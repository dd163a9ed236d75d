// Package errors provides structured error types for neromind.
//
// Error codes let the CLI and embedding applications tell apart the few
// situations in which the editing core reports a failure at all:
//   - INVALID_*: malformed input (documents, settings, names)
//   - NOT_FOUND: a requested map or node does not exist
//   - EMPTY_HISTORY: undo was requested with nothing recorded
//   - TRANSACTION_FAILED: a batch of commands was rolled back
//
// Editing commands themselves never fail on missing referents; they are
// no-ops. Only transactions, undo on an empty history and document loading
// produce errors.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown field %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle malformed document
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "read map %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidSignature   Code = "INVALID_SIGNATURE"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	ErrCodeMissingRoot        Code = "MISSING_ROOT"
	ErrCodeInvalidName        Code = "INVALID_NAME"
	ErrCodeInvalidSettings    Code = "INVALID_SETTINGS"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Editing errors
	ErrCodeEmptyHistory      Code = "EMPTY_HISTORY"
	ErrCodeTransactionFailed Code = "TRANSACTION_FAILED"

	// Infrastructure errors
	ErrCodeStorage  Code = "STORAGE"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so a TRANSACTION_FAILED wrapping an INVALID_INPUT matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Join combines errs into one error, discarding nils. It returns nil when
// every err is nil.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
