package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
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

// Local reports whether the error was raised before any network round-trip.
func (e *Error) Local() bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case ErrInvalidQRFormat.Code, ErrMissingIdentity.Code, ErrSameDayLock.Code, ErrValidation.Code:
		return true
	}
	return false
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. The first group never leaves the device; the second
// describes what came back (or failed to come back) from the backend.
var (
	ErrInvalidQRFormat = New("INVALID_QR_FORMAT", http.StatusBadRequest, "scanned code is not a valid identity payload")
	ErrMissingIdentity = New("MISSING_IDENTITY", http.StatusBadRequest, "scanned code carries no student or teacher id")
	ErrSameDayLock     = New("SAME_DAY_LOCK", http.StatusConflict, "a session scheduled for today cannot be cancelled")
	ErrValidation      = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")

	ErrNotEnrolled        = New("NOT_ENROLLED", http.StatusNotFound, "subject is not enrolled in this session")
	ErrRemote             = New("REMOTE_ERROR", http.StatusBadGateway, "request failed")
	ErrTransport          = New("TRANSPORT_ERROR", http.StatusServiceUnavailable, "backend unreachable")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid name, email or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
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
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
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

// HasCode reports whether err normalises to an *Error carrying code.
func HasCode(err error, code string) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}
