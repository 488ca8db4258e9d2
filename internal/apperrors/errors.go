package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies a failure class that handlers map onto HTTP statuses.
type Code string

const (
	CodeInvalidCredentials      Code = "invalid_credentials"
	CodeSessionExpired          Code = "session_expired"
	CodeForbidden               Code = "forbidden"
	CodeNoEventSelected         Code = "no_event_selected"
	CodeInsufficientPool        Code = "insufficient_pool"
	CodePoolChanged             Code = "pool_changed"
	CodeReasonTooShort          Code = "reason_too_short"
	CodeRequiredFieldMissing    Code = "required_field_missing"
	CodeStatusTransitionInvalid Code = "status_transition_invalid"
	CodeConcurrentMutation      Code = "concurrent_mutation"
	CodeNotFound                Code = "not_found"
)

// Error carries a machine-readable code alongside the message. Wrapped
// causes survive for errors.Is/As checks.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on code so sentinel comparisons work across wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the failure code from err, or empty if err is not an
// *Error anywhere in its chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Sentinels for the common cases. Services return these (or wrapped
// variants carrying context) and handlers switch on the code.
var (
	ErrInvalidCredentials      = New(CodeInvalidCredentials, "invalid username or password")
	ErrSessionExpired          = New(CodeSessionExpired, "session has expired")
	ErrForbidden               = New(CodeForbidden, "insufficient permissions")
	ErrNoEventSelected         = New(CodeNoEventSelected, "no event selected")
	ErrInsufficientPool        = New(CodeInsufficientPool, "not enough eligible participants")
	ErrPoolChanged             = New(CodePoolChanged, "participant pool changed since proposal")
	ErrReasonTooShort          = New(CodeReasonTooShort, "reason must be at least 10 characters")
	ErrRequiredFieldMissing    = New(CodeRequiredFieldMissing, "required field missing")
	ErrStatusTransitionInvalid = New(CodeStatusTransitionInvalid, "illegal event status transition")
	ErrConcurrentMutation      = New(CodeConcurrentMutation, "conflicting concurrent mutation")
	ErrNotFound                = New(CodeNotFound, "resource not found")
)
