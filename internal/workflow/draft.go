package workflow

import (
	"strings"

	"github.com/requestdesk/requestdesk/internal/errors"
)

// Draft carries the submitter-editable fields of a request, for both new
// submissions and edits of a still-Pending request.
type Draft struct {
	Title       string
	Description string
	Urgency     Urgency

	// TargetManagerID optionally routes the request to a specific handler.
	// Nil lets the backend fall back to the submitter's assigned manager.
	TargetManagerID *int
}

// Normalize trims whitespace and applies the default urgency.
func (d Draft) Normalize() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Urgency == "" {
		d.Urgency = UrgencyMedium
	}
	return d
}

// Validate rejects a draft client-side before any network call: title and
// description are required, and the urgency must be a known level.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.NewFieldRequiredError("title")
	}
	if strings.TrimSpace(d.Description) == "" {
		return errors.NewFieldRequiredError("description")
	}
	if d.Urgency != "" && !d.Urgency.Valid() {
		return errors.New(errors.ErrCodeValueInvalid, "unknown urgency "+string(d.Urgency)).
			WithSuggestion("Use one of: Low, Medium, High, Critical")
	}
	return nil
}

// ChangedFrom reports whether applying the draft to the request would change
// at least one of title, description, urgency, or handler assignment. Edits
// that change nothing are rejected before reaching the backend.
func (d Draft) ChangedFrom(req Request) bool {
	norm := d.Normalize()
	if norm.Title != req.Title || norm.Description != req.Description {
		return true
	}
	if norm.Urgency != req.Urgency {
		return true
	}
	switch {
	case norm.TargetManagerID == nil:
		// No explicit handler choice keeps the current assignment.
		return false
	case req.HandlerID == nil:
		return true
	default:
		return *norm.TargetManagerID != *req.HandlerID
	}
}
