package workflow

import (
	"strings"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
)

// AuthorizeTransition decides client-side whether the actor may move the
// request to the given status, before any network call is attempted.
//
// The legal moves form a one-directional lattice: Pending or Escalated may
// become Approved or Rejected when the actor holds a handler role, a
// rejection additionally requires a non-empty reason, and nothing else is
// permitted — terminal states never re-open. The backend re-validates the
// same rules; this check only exists so obviously illegal attempts fail
// locally and never reach the wire.
func AuthorizeTransition(req Request, actor Actor, to Status, reason string) error {
	if !to.Valid() {
		return errors.New(errors.ErrCodeValueInvalid, "unknown target status "+string(to))
	}

	if to != StatusApproved && to != StatusRejected {
		return errors.NewIllegalTransitionError(string(req.Status), string(to))
	}

	if !req.Status.Actionable() {
		return errors.NewIllegalTransitionError(string(req.Status), string(to))
	}

	if !actor.Role.IsHandler() {
		return errors.NewAccessDeniedError(actor.Role.String(), "approve or reject requests")
	}

	if to == StatusRejected && strings.TrimSpace(reason) == "" {
		return errors.NewReasonRequiredError()
	}

	return nil
}

// LegalTransitions returns the set of statuses the actor could move the
// request to right now. The UI uses this to decide which action buttons to
// offer; it is advisory, like everything else client-side.
func LegalTransitions(req Request, actor Actor) []Status {
	if !req.Status.Actionable() || !actor.Role.IsHandler() {
		return nil
	}
	return []Status{StatusApproved, StatusRejected}
}

// AuthorizeEdit decides whether the actor may modify the request's mutable
// fields (title, description, urgency, handler assignment).
//
// Only the submitter may edit, and only while the request is still Pending;
// once actioned — or escalated — it is immutable to the submitter.
func AuthorizeEdit(req Request, actor Actor) error {
	if req.Status != StatusPending {
		return errors.New(errors.ErrCodeEditLocked,
			"request "+string(req.Status)+" can no longer be edited").
			WithSuggestion("Only Pending requests can be edited by their submitter")
	}

	if !isSubmitter(req, actor) {
		return errors.NewAccessDeniedError(actor.Role.String(), "edit a request submitted by someone else")
	}

	return nil
}

// isSubmitter matches ownership by username. The backend omits the submitter
// name on some scoped listings; an employee's listing only ever contains
// their own requests, so a missing name is treated as owned.
func isSubmitter(req Request, actor Actor) bool {
	if req.SubmitterName == "" {
		return actor.Role == access.RoleEmployee
	}
	return req.SubmitterName == actor.Subject
}
