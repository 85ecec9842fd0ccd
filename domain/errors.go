package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the closed taxonomy shared across transport layers. Callers
// switch on the code instead of inspecting error shapes.
type ErrorCode string

const (
	ErrCodeValidation      ErrorCode = "VALIDATION"
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInvalidOwner    ErrorCode = "INVALID_OWNER"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrAssetNotFound   = NewError(ErrCodeNotFound, "asset not found")
	ErrEventNotFound   = NewError(ErrCodeNotFound, "event not found")
	ErrUserNotFound    = NewError(ErrCodeNotFound, "user not found")
	ErrProductNotFound = NewError(ErrCodeNotFound, "product not found")
	ErrStockNotFound   = NewError(ErrCodeNotFound, "stock record not found")
	ErrTicketNotFound  = NewError(ErrCodeNotFound, "ticket not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrInvalidOwner    = NewError(ErrCodeInvalidOwner, "ownerId does not reference an existing user")
	ErrUnauthenticated = NewError(ErrCodeUnauthenticated, "not authenticated")
	ErrForbidden       = NewError(ErrCodeForbidden, "not authorized")
	ErrInvalidPayload  = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf extracts the domain code from an error chain, defaulting to INTERNAL
// for unclassified failures.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
