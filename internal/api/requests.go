package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/requestdesk/requestdesk/internal/workflow"
)

// Manager identifies an account that can be assigned as a request handler.
type Manager struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// ListManagers returns the accounts assignable as handlers.
func (c *Client) ListManagers(ctx context.Context) ([]Manager, error) {
	var managers []Manager
	if err := c.do(ctx, http.MethodGet, "/auth/managers", nil, nil, &managers); err != nil {
		return nil, err
	}
	return managers, nil
}

// ListRequests returns the full set of requests visible to the caller. The
// backend applies role scoping: employees see their own submissions, handler
// roles see their assigned scope.
func (c *Client) ListRequests(ctx context.Context) ([]workflow.Request, error) {
	var requests []workflow.Request
	if err := c.do(ctx, http.MethodGet, "/requests", nil, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// draftPayload is the wire shape shared by create and edit.
type draftPayload struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Urgency         workflow.Urgency `json:"urgency"`
	TargetManagerID *int             `json:"target_manager_id,omitempty"`
}

func toPayload(draft workflow.Draft) draftPayload {
	draft = draft.Normalize()
	return draftPayload{
		Title:           draft.Title,
		Description:     draft.Description,
		Urgency:         draft.Urgency,
		TargetManagerID: draft.TargetManagerID,
	}
}

// CreateRequest submits a new request. Server-computed fields (id, SLA
// deadline, resolved handler) come back in the response, but callers should
// still refresh rather than trust a single record.
func (c *Client) CreateRequest(ctx context.Context, draft workflow.Draft) (workflow.Request, error) {
	var created workflow.Request
	if err := c.do(ctx, http.MethodPost, "/requests", nil, toPayload(draft), &created); err != nil {
		return workflow.Request{}, err
	}
	return created, nil
}

// EditRequest updates a still-Pending request's mutable fields. The backend
// is the final arbiter of editability.
func (c *Client) EditRequest(ctx context.Context, id int, draft workflow.Draft) (workflow.Request, error) {
	var updated workflow.Request
	if err := c.do(ctx, http.MethodPut, apiPath("/requests/%d", id), nil, toPayload(draft), &updated); err != nil {
		return workflow.Request{}, err
	}
	return updated, nil
}

// statusPayload is the wire shape of a status transition.
type statusPayload struct {
	Status          workflow.Status `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
}

// UpdateStatus moves a request to a new status. Rejections carry the reason;
// the server enforces the same workflow rules the client pre-checked.
func (c *Client) UpdateStatus(ctx context.Context, id int, status workflow.Status, reason string) (workflow.Request, error) {
	payload := statusPayload{Status: status, RejectionReason: reason}

	var updated workflow.Request
	if err := c.do(ctx, http.MethodPut, apiPath("/requests/%d/status", id), nil, payload, &updated); err != nil {
		return workflow.Request{}, err
	}
	return updated, nil
}

// SetSLA sets the default SLA window, in minutes, applied to new requests.
// Administrator only; the backend enforces the role.
func (c *Client) SetSLA(ctx context.Context, minutes int) error {
	query := url.Values{}
	query.Set("minutes", strconv.Itoa(minutes))
	return c.do(ctx, http.MethodPost, "/admin/config/sla", query, nil, nil)
}

// NewAccount describes an account to provision.
type NewAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`

	// ManagerID assigns the default manager for Employee accounts.
	ManagerID *int `json:"manager_id,omitempty"`
}

// CreatedAccount is the backend's view of a provisioned account.
type CreatedAccount struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	ManagerID *int   `json:"manager_id,omitempty"`
}

// CreateUser provisions a new account. Administrator only.
func (c *Client) CreateUser(ctx context.Context, account NewAccount) (CreatedAccount, error) {
	var created CreatedAccount
	if err := c.do(ctx, http.MethodPost, "/admin/users", nil, account, &created); err != nil {
		return CreatedAccount{}, err
	}
	return created, nil
}
