// Package domainerrors provides code-classified errors for the accounting
// domain. Services and aggregates return these so transport layers can map
// failures to responses without inspecting error strings.
//
// Codes describe the kind of failure, not the offending field; the message
// carries the specifics. Stores return sentinel errors instead (see
// pkg/platform/sentinel) and services translate them into domain errors.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks a constructor or method precondition failure:
	// blank required field, out-of-range value, malformed date.
	CodeValidation Code = "validation_error"
	// CodeInvariantViolation marks an operation the current aggregate state
	// forbids, e.g. recalculating an already-paid distribution.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidInput marks malformed request-level input such as an
	// unparseable id or date string.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks a structurally invalid request body.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a lookup that resolved to nothing.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a concurrent-modification or uniqueness conflict.
	CodeConflict Code = "conflict"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks an unexpected infrastructure failure.
	CodeInternal Code = "internal_error"
)

// Error is a domain error carrying a classification code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while keeping it unwrappable.
// A nil err returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
		de = nil
	}
	return false
}

// Is is a readable alias for HasCode at call sites that test a single code.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when the
// error is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
