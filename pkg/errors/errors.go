// Package errors provides coded errors shared by the pipeline, the CLI and
// the HTTP server.
//
// Every failure the pipeline reports carries a [Code]. The server maps codes
// to HTTP statuses and the CLI prints [UserMessage]. Codes nest: a data
// source failure is reported as FETCH_FAILED wrapping the source's own code
// (NOT_FOUND, NETWORK_ERROR, TIMEOUT), and [Has] looks through all layers.
//
// # Error Codes
//
//   - INVALID_*, DUPLICATE_NODE: the tree or the options are unusable
//   - NOT_FOUND, FILE_NOT_FOUND: the tree source does not exist
//   - NETWORK_ERROR, TIMEOUT, FETCH_FAILED: the data source failed
//   - INTERNAL_ERROR, UNSUPPORTED: treeflow itself failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicateNode) {
//	    // Handle duplicate id
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "fetch %s", url)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidColor  Code = "INVALID_COLOR"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidState  Code = "INVALID_STATE"
	ErrCodeDuplicateNode Code = "DUPLICATE_NODE"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Access errors
	ErrCodeForbidden Code = "FORBIDDEN"

	// Data source errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeFetchFailed Code = "FETCH_FAILED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// Has reports whether any *Error in err's chain has code.
func Has(err error, code Code) bool {
	for _, c := range Codes(err) {
		if c == code {
			return true
		}
	}
	return false
}

// Codes lists the codes in err's chain, outermost first.
func Codes(err error) []Code {
	var codes []Code
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		codes = append(codes, e.Code)
		err = e.Cause
	}
	return codes
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code,
// or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
