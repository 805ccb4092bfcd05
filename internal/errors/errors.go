package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeCredentialInvalid ErrorCode = "SESSION-001"
	ErrCodeCredentialExpired ErrorCode = "SESSION-002"
	ErrCodeCredentialStorage ErrorCode = "SESSION-003"
	ErrCodeSessionMissing    ErrorCode = "SESSION-004"

	// Route guard errors (GUARD-001 to GUARD-099)
	ErrCodeAccessDenied ErrorCode = "GUARD-001"
	ErrCodeRoleUnknown  ErrorCode = "GUARD-002"

	// Workflow errors (FLOW-001 to FLOW-099)
	ErrCodeIllegalTransition ErrorCode = "FLOW-001"
	ErrCodeEditLocked        ErrorCode = "FLOW-002"
	ErrCodeRequestNotFound   ErrorCode = "FLOW-003"

	// Validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeFieldRequired  ErrorCode = "VALIDATION-001"
	ErrCodeReasonRequired ErrorCode = "VALIDATION-002"
	ErrCodeValueInvalid   ErrorCode = "VALIDATION-003"
	ErrCodeNothingChanged ErrorCode = "VALIDATION-004"

	// Backend API errors (API-001 to API-099)
	ErrCodeFetchFailed   ErrorCode = "API-001"
	ErrCodeBackendReject ErrorCode = "API-002"
	ErrCodeUnauthorized  ErrorCode = "API-003"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigRead    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"
)

// DeskError represents an enhanced error with code, suggestions, and a cause
type DeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *DeskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DeskError) Unwrap() error {
	return e.Cause
}

// New creates a new DeskError
func New(code ErrorCode, message string) *DeskError {
	return &DeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new DeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *DeskError {
	return &DeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *DeskError) WithSuggestion(suggestion string) *DeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *DeskError) WithSuggestions(suggestions ...string) *DeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// HasCode reports whether err is a DeskError carrying the given code
func HasCode(err error, code ErrorCode) bool {
	if deskErr, ok := err.(*DeskError); ok {
		return deskErr.Code == code
	}
	return false
}

// IsValidation reports whether err was resolved client-side as a validation
// failure, before any network call was made
func IsValidation(err error) bool {
	deskErr, ok := err.(*DeskError)
	if !ok {
		return false
	}
	return strings.HasPrefix(string(deskErr.Code), "VALIDATION-")
}

// Common error constructors for frequently used errors

// NewInvalidCredentialError creates an error for a credential that cannot be decoded
func NewInvalidCredentialError(cause error) *DeskError {
	return Wrap(ErrCodeCredentialInvalid, "credential could not be decoded", cause).
		WithSuggestion("Run 'requestdesk login' to obtain a fresh credential")
}

// NewCredentialExpiredError creates an error for an expired credential
func NewCredentialExpiredError() *DeskError {
	return New(ErrCodeCredentialExpired, "credential has expired").
		WithSuggestion("Run 'requestdesk login' to sign in again")
}

// NewSessionMissingError creates an error for commands that require a session
func NewSessionMissingError() *DeskError {
	return New(ErrCodeSessionMissing, "not logged in").
		WithSuggestion("Run 'requestdesk login' first")
}

// NewAccessDeniedError creates an error for a role that may not use an operation
func NewAccessDeniedError(role string, operation string) *DeskError {
	return New(ErrCodeAccessDenied, fmt.Sprintf("role %s may not %s", role, operation)).
		WithSuggestion("Check which dashboard your role is assigned to with 'requestdesk whoami'")
}

// NewIllegalTransitionError creates an error for a status change the workflow forbids
func NewIllegalTransitionError(from string, to string) *DeskError {
	return New(ErrCodeIllegalTransition, fmt.Sprintf("transition %s -> %s is not allowed", from, to)).
		WithSuggestion("Only Pending or Escalated requests can be approved or rejected")
}

// NewFieldRequiredError creates an error for a missing required field
func NewFieldRequiredError(field string) *DeskError {
	return New(ErrCodeFieldRequired, fmt.Sprintf("%s is required", field))
}

// NewReasonRequiredError creates an error for a rejection without a reason
func NewReasonRequiredError() *DeskError {
	return New(ErrCodeReasonRequired, "a non-empty rejection reason is required").
		WithSuggestion("Provide the reason with --reason or fill it in the rejection form")
}

// NewFetchError creates an error for a failed backend read
func NewFetchError(cause error) *DeskError {
	return Wrap(ErrCodeFetchFailed, "could not reach the request service", cause).
		WithSuggestion("Check your network connection and the configured server URL").
		WithSuggestion("The next scheduled refresh will retry automatically")
}

// NewBackendError creates an error for a non-2xx backend response
func NewBackendError(status int, detail string) *DeskError {
	msg := fmt.Sprintf("server rejected the request (HTTP %d)", status)
	if detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, detail)
	}
	return New(ErrCodeBackendReject, msg)
}

// NewUnauthorizedError creates an error for a 401 response. Callers must
// terminate the session when they see this code.
func NewUnauthorizedError() *DeskError {
	return New(ErrCodeUnauthorized, "credential rejected by the server").
		WithSuggestion("Run 'requestdesk login' to sign in again")
}
