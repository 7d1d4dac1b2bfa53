package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode identifies a timesheet failure the voice assistant can act on.
type ErrorCode string

const (
	// ErrCodeSessionNotFound indicates the call id is not bound to an authenticated session.
	ErrCodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"
	// ErrCodeValidation indicates invalid input: bad time, bad date, empty description, unknown entry.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeNoActiveSites indicates the tenant has no active sites.
	ErrCodeNoActiveSites ErrorCode = "NO_ACTIVE_SITES"
	// ErrCodeAmbiguousMatch indicates more detail is needed to pick a site.
	ErrCodeAmbiguousMatch ErrorCode = "AMBIGUOUS_MATCH"
	// ErrCodeStorage indicates a store failure that survived a retry.
	ErrCodeStorage ErrorCode = "STORAGE_ERROR"
	// ErrCodeOutOfWindow indicates the work date is older than the backdating window.
	ErrCodeOutOfWindow ErrorCode = "OUT_OF_WINDOW"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// TimesheetError is a classified failure. Message is safe to speak to the caller.
type TimesheetError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *TimesheetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TimesheetError) Unwrap() error {
	return e.Cause
}

// Convenience constructors.

// SessionNotFound creates a session-not-found error for the given call.
func SessionNotFound(callID string) *TimesheetError {
	return &TimesheetError{
		Code:    ErrCodeSessionNotFound,
		Message: "I couldn't find your session. Please call back and sign in again.",
		Cause:   fmt.Errorf("no active session for call %q", callID),
	}
}

// Validation creates a validation error with a speakable message.
func Validation(msg string) *TimesheetError {
	return &TimesheetError{Code: ErrCodeValidation, Message: msg}
}

// NoActiveSites creates the terminal no-sites error.
func NoActiveSites() *TimesheetError {
	return &TimesheetError{
		Code:    ErrCodeNoActiveSites,
		Message: "There are no active sites set up for your company yet, so I can't log a timesheet.",
	}
}

// AmbiguousMatch creates an ambiguous-match error.
func AmbiguousMatch(msg string) *TimesheetError {
	return &TimesheetError{Code: ErrCodeAmbiguousMatch, Message: msg}
}

// Storage creates a storage error.
func Storage(cause error) *TimesheetError {
	return &TimesheetError{
		Code:    ErrCodeStorage,
		Message: "I had trouble saving that. Please try again in a moment.",
		Cause:   cause,
	}
}

// OutOfWindow creates an out-of-window error for a work date older than windowDays.
func OutOfWindow(workDate string, windowDays int) *TimesheetError {
	return &TimesheetError{
		Code:    ErrCodeOutOfWindow,
		Message: fmt.Sprintf("I can only log timesheets from the last %d days. Please check the date with your office.", windowDays),
		Cause:   fmt.Errorf("work date %s is outside the %d day window", workDate, windowDays),
	}
}

// Internal wraps an unexpected failure.
func Internal(cause error) *TimesheetError {
	return &TimesheetError{
		Code:    ErrCodeInternal,
		Message: "Something went wrong on my end. Please try again.",
		Cause:   cause,
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *TimesheetError {
	return &TimesheetError{Code: code, Message: msg, Cause: cause}
}

// As returns the first TimesheetError in err's chain.
func As(err error) (*TimesheetError, bool) {
	var tsErr *TimesheetError
	if stderrors.As(err, &tsErr) {
		return tsErr, true
	}
	return nil, false
}

// IsCode checks if an error chain carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	if tsErr, ok := As(err); ok {
		return tsErr.Code == code
	}
	return false
}

// CodeOf extracts the error code from any error.
// Returns ErrCodeInternal if the error is not a TimesheetError.
func CodeOf(err error) ErrorCode {
	if tsErr, ok := As(err); ok {
		return tsErr.Code
	}
	return ErrCodeInternal
}
