// Package apperr classifies operation failures so transport layers can map
// them to responses without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure.
type Code int

const (
	// CodeInternal is an unanticipated failure (storage errors and the like).
	CodeInternal Code = iota
	// CodeInvalid is malformed or missing input.
	CodeInvalid
	// CodeForbidden is a role or ownership mismatch.
	CodeForbidden
	// CodeNotFound means a referenced entity does not exist.
	CodeNotFound
	// CodeInvalidState means the operation is not legal in the entity's
	// current lifecycle state.
	CodeInvalidState
	// CodeConflict is a uniqueness violation.
	CodeConflict
)

// Error carries a failure code and a message safe to show callers.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// New returns an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns an Error with the given code and a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the code from err, returning CodeInternal for errors that
// carry no code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
