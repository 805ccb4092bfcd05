package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/requestdesk/requestdesk/internal/errors"
)

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name     string
		draft    Draft
		wantCode errors.ErrorCode
	}{
		{"complete draft", Draft{Title: "VPN Access", Description: "need remote access", Urgency: UrgencyHigh}, ""},
		{"default urgency", Draft{Title: "Laptop", Description: "battery is dead"}, ""},
		{"missing title", Draft{Description: "something"}, errors.ErrCodeFieldRequired},
		{"whitespace title", Draft{Title: "   ", Description: "something"}, errors.ErrCodeFieldRequired},
		{"missing description", Draft{Title: "Laptop"}, errors.ErrCodeFieldRequired},
		{"unknown urgency", Draft{Title: "Laptop", Description: "x", Urgency: "Extreme"}, errors.ErrCodeValueInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.wantCode))
		})
	}
}

func TestDraft_Normalize(t *testing.T) {
	d := Draft{Title: "  VPN Access ", Description: " need remote access "}.Normalize()
	assert.Equal(t, "VPN Access", d.Title)
	assert.Equal(t, "need remote access", d.Description)
	assert.Equal(t, UrgencyMedium, d.Urgency)
}

func TestDraft_ChangedFrom(t *testing.T) {
	handler := 7
	base := Request{
		Title:       "VPN Access",
		Description: "need remote access",
		Urgency:     UrgencyHigh,
		HandlerID:   &handler,
	}

	same := Draft{Title: "VPN Access", Description: "need remote access", Urgency: UrgencyHigh}
	assert.False(t, same.ChangedFrom(base))

	sameHandler := same
	sameHandler.TargetManagerID = &handler
	assert.False(t, sameHandler.ChangedFrom(base))

	retitled := same
	retitled.Title = "VPN + MFA Access"
	assert.True(t, retitled.ChangedFrom(base))

	reprioritized := same
	reprioritized.Urgency = UrgencyCritical
	assert.True(t, reprioritized.ChangedFrom(base))

	other := 9
	reassigned := same
	reassigned.TargetManagerID = &other
	assert.True(t, reassigned.ChangedFrom(base))

	unassigned := base
	unassigned.HandlerID = nil
	assert.True(t, sameHandler.ChangedFrom(unassigned))
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	requests := []Request{
		{Status: StatusPending, SLADeadline: now.Add(30 * time.Minute)},
		{Status: StatusPending, SLADeadline: now.Add(3 * time.Hour)},
		{Status: StatusApproved},
		{Status: StatusRejected},
		{Status: StatusEscalated},
	}

	stats := Summarize(requests, now)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 1, stats.Escalated)
	assert.Equal(t, 1, stats.Urgent)
}

func TestStatusProperties(t *testing.T) {
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusEscalated.Terminal())
	assert.True(t, StatusEscalated.Actionable())
	assert.True(t, StatusPending.Actionable())
	assert.False(t, Status("Parked").Valid())
	assert.False(t, Urgency("Extreme").Valid())
}
