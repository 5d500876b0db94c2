// Package errors provides the coded error type shared by the game core and
// its callers.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeNoActiveUser    Code = "NO_ACTIVE_USER"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodePersistence     Code = "PERSISTENCE"
)

// ExitCode maps a code onto a process exit status.
func (c Code) ExitCode() int {
	switch c {
	case CodeInvalidArgument:
		return 2
	case CodeNotFound:
		return 3
	case CodeNoActiveUser:
		return 4
	case CodeAlreadyExists:
		return 5
	case CodePersistence:
		return 6
	default:
		return 1
	}
}

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context, e.g. the missing id
	Cause    error             // Wrapped underlying error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, CodeUnknown
// when there is none.
func CodeOf(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Sentinels usable with errors.Is.
var (
	ErrNotFound     = New(CodeNotFound, "not found")
	ErrNoActiveUser = New(CodeNoActiveUser, "no user loaded")
)
