package exitcode

import (
	"os"

	"github.com/requestdesk/requestdesk/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ValidationError indicates input rejected before any network call
	ValidationError = 3

	// TransitionError indicates a workflow rule violation
	TransitionError = 4

	// AuthError indicates an authentication or authorization failure
	AuthError = 5

	// NetworkError indicates a network connectivity issue
	NetworkError = 6

	// Interrupted indicates the run was cancelled by the user
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	deskErr, ok := err.(*errors.DeskError)
	if !ok {
		return GeneralError
	}

	switch deskErr.Code {
	case errors.ErrCodeCredentialInvalid,
		errors.ErrCodeCredentialExpired,
		errors.ErrCodeSessionMissing,
		errors.ErrCodeUnauthorized,
		errors.ErrCodeAccessDenied:
		return AuthError
	case errors.ErrCodeIllegalTransition,
		errors.ErrCodeEditLocked:
		return TransitionError
	case errors.ErrCodeFieldRequired,
		errors.ErrCodeReasonRequired,
		errors.ErrCodeValueInvalid,
		errors.ErrCodeNothingChanged:
		return ValidationError
	case errors.ErrCodeFetchFailed:
		return NetworkError
	default:
		return GeneralError
	}
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ValidationError:
		return "Validation error"
	case TransitionError:
		return "Workflow transition not allowed"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
