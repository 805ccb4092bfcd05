// Package workflow holds the request model and the pure authorization rules
// that decide which status transitions are legal for which actor. Nothing in
// this package performs I/O; the backend remains the authority and re-checks
// every transition server-side.
package workflow

import (
	"time"

	"github.com/requestdesk/requestdesk/internal/access"
)

// Status is a request's position in the approval workflow.
type Status string

// Workflow statuses. Approved and Rejected are terminal. Escalated is a
// server-driven side branch of Pending (SLA breach) and remains actionable.
const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusEscalated Status = "Escalated"
)

// Statuses lists every workflow status, in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusRejected, StatusEscalated}
}

// Valid reports whether the status is a member of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusEscalated:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition can leave this status.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Actionable reports whether a handler may still approve or reject.
func (s Status) Actionable() bool {
	return s == StatusPending || s == StatusEscalated
}

// Urgency is the advisory priority of a request. It has no workflow effect.
type Urgency string

// Urgency levels.
const (
	UrgencyLow      Urgency = "Low"
	UrgencyMedium   Urgency = "Medium"
	UrgencyHigh     Urgency = "High"
	UrgencyCritical Urgency = "Critical"
)

// Urgencies lists the urgency levels from lowest to highest.
func Urgencies() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

// Valid reports whether the urgency is a member of the closed set.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	default:
		return false
	}
}

// Request is the central workflow entity, wire-compatible with the backend's
// JSON representation. The client treats every field as read-only server
// truth; mutations go through the backend and come back on the next refresh.
type Request struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Urgency     Urgency `json:"urgency"`

	SubmitterID   int    `json:"submitter_id"`
	SubmitterName string `json:"submitter_username,omitempty"`

	// HandlerID is nil only while the request is Pending and no assignment
	// has resolved yet.
	HandlerID   *int   `json:"current_handler_id"`
	HandlerName string `json:"handler_username,omitempty"`

	Status Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// SLADeadline is computed by the backend at creation; once it elapses
	// while the request is Pending, the server escalates.
	SLADeadline time.Time `json:"sla_deadline"`

	// RejectionReason is present iff Status is Rejected.
	RejectionReason string `json:"rejection_reason,omitempty"`

	ActionedByName string `json:"actioned_by_username,omitempty"`
}

// OverdueSoon reports whether a Pending request's SLA deadline falls inside
// the warning window. The manager dashboard flags these as urgent.
func (r Request) OverdueSoon(now time.Time, window time.Duration) bool {
	return r.Status == StatusPending && r.SLADeadline.Before(now.Add(window))
}

// Actor is the authenticated user attempting an operation, as the client
// knows them: the credential's subject plus role. Numeric user IDs never
// reach the client, so ownership is matched by username.
type Actor struct {
	Subject string
	Role    access.Role
}

// Stats summarizes a request collection for the dashboard header.
type Stats struct {
	Total     int
	Pending   int
	Approved  int
	Rejected  int
	Escalated int
	Urgent    int
}

// Summarize computes dashboard statistics over a collection. The urgent
// count uses a one-hour SLA warning window, matching the manager view.
func Summarize(requests []Request, now time.Time) Stats {
	stats := Stats{Total: len(requests)}
	for _, r := range requests {
		switch r.Status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		case StatusEscalated:
			stats.Escalated++
		}
		if r.OverdueSoon(now, time.Hour) {
			stats.Urgent++
		}
	}
	return stats
}
