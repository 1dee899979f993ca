package errors

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error with a stable machine-readable code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code, so clones and wraps of a sentinel
// still satisfy errors.Is against it.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrAuthenticationFailed  = New("AUTHENTICATION_FAILED", "invalid username or password")
	ErrUnauthorized          = New("UNAUTHORIZED", "sign in required")
	ErrForbidden             = New("FORBIDDEN", "forbidden")
	ErrNotFound              = New("NOT_FOUND", "resource not found")
	ErrConflict              = New("CONFLICT", "conflict")
	ErrValidation            = New("VALIDATION_ERROR", "validation failed")
	ErrPersistenceCorruption = New("PERSISTENCE_CORRUPTION", "stored value is corrupt")
	ErrResourceDenied        = New("RESOURCE_DENIED", "external resource access denied")
	ErrStoreUnavailable      = New("STORE_UNAVAILABLE", "persistent store unavailable")
	ErrInternal              = New("INTERNAL_ERROR", "internal error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
