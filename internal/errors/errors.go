package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig     = "CONFIG"
	ErrCollect    = "COLLECT"
	ErrTerminal   = "TERMINAL"
	ErrExport     = "EXPORT"
	ErrPermission = "PERMISSION"
	ErrInput      = "INPUT"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrCollect code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrCollect,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface. A structured cause contributes only
// its message, so nested errors don't repeat the ✗ marker.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", Headline(e.Cause)))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var rtopErr *Error
	if errors.As(err, &rtopErr) {
		return rtopErr.Code == code
	}
	return false
}

// Headline returns the message of the first structured Error in the chain,
// or the plain error text.
func Headline(err error) string {
	var rtopErr *Error
	if errors.As(err, &rtopErr) {
		return rtopErr.Message
	}
	return err.Error()
}

// ExitCode maps an error to a process exit status: 2 for bad config or
// input, 3 when no terminal is available, 1 for everything else.
func ExitCode(err error) int {
	switch CodeOf(err) {
	case ErrConfig, ErrInput:
		return 2
	case ErrTerminal:
		return 3
	default:
		return 1
	}
}

// CodeOf returns the code of the first structured Error in the chain, or "".
func CodeOf(err error) string {
	var rtopErr *Error
	if errors.As(err, &rtopErr) {
		return rtopErr.Code
	}
	return ""
}
