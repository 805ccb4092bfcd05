package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeskError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DeskError
		contains []string
	}{
		{
			name:     "code and message",
			err:      New(ErrCodeIllegalTransition, "transition Approved -> Pending is not allowed"),
			contains: []string{"[FLOW-001]", "transition Approved -> Pending is not allowed"},
		},
		{
			name:     "wrapped cause",
			err:      Wrap(ErrCodeFetchFailed, "could not reach the request service", fmt.Errorf("dial tcp: refused")),
			contains: []string{"[API-001]", "dial tcp: refused"},
		},
		{
			name: "suggestions rendered",
			err: New(ErrCodeReasonRequired, "a non-empty rejection reason is required").
				WithSuggestion("Provide the reason with --reason"),
			contains: []string{"Suggestions:", "Provide the reason with --reason"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				assert.Contains(t, msg, want)
			}
		})
	}
}

func TestDeskError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := Wrap(ErrCodeFetchFailed, "refresh failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestHasCode(t *testing.T) {
	err := NewReasonRequiredError()

	assert.True(t, HasCode(err, ErrCodeReasonRequired))
	assert.False(t, HasCode(err, ErrCodeIllegalTransition))
	assert.False(t, HasCode(fmt.Errorf("plain"), ErrCodeReasonRequired))
	assert.False(t, HasCode(nil, ErrCodeReasonRequired))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewReasonRequiredError()))
	assert.True(t, IsValidation(NewFieldRequiredError("title")))
	assert.False(t, IsValidation(NewIllegalTransitionError("Approved", "Pending")))
	assert.False(t, IsValidation(fmt.Errorf("plain")))
}

func TestNamedConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeCredentialExpired, NewCredentialExpiredError().Code)
	assert.Equal(t, ErrCodeUnauthorized, NewUnauthorizedError().Code)
	assert.Equal(t, ErrCodeBackendReject, NewBackendError(400, "Rejection reason is required").Code)
	assert.Contains(t, NewBackendError(500, "").Error(), "HTTP 500")
	assert.Equal(t, ErrCodeAccessDenied, NewAccessDeniedError("Employee", "approve requests").Code)
}
