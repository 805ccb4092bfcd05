package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/store"
	"github.com/requestdesk/requestdesk/internal/workflow"
)

// stubBackend satisfies store.Backend with static data.
type stubBackend struct {
	requests []workflow.Request
}

func (s stubBackend) ListRequests(context.Context) ([]workflow.Request, error) {
	return s.requests, nil
}

func (s stubBackend) CreateRequest(_ context.Context, draft workflow.Draft) (workflow.Request, error) {
	return workflow.Request{ID: 1, Status: workflow.StatusPending}, nil
}

func (s stubBackend) EditRequest(_ context.Context, id int, _ workflow.Draft) (workflow.Request, error) {
	return workflow.Request{ID: id}, nil
}

func (s stubBackend) UpdateStatus(_ context.Context, id int, status workflow.Status, _ string) (workflow.Request, error) {
	return workflow.Request{ID: id, Status: status}, nil
}

func newTestModel(t *testing.T, role access.Role, requests ...workflow.Request) Model {
	t.Helper()

	st := store.New(stubBackend{requests: requests}, workflow.Actor{Subject: "alice", Role: role})
	m := New(context.Background(), st, nil)
	m.ready = true

	if len(requests) > 0 {
		if err := st.Refresh(context.Background()); err != nil {
			t.Fatalf("seed refresh failed: %v", err)
		}
		updated, _ := m.Update(RefreshedMsg(store.Update{Seq: 1, Requests: requests}))
		m = updated.(Model)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestNewModel tests model initialization
func TestNewModel(t *testing.T) {
	m := newTestModel(t, access.RoleManager)

	if m.role != access.RoleManager {
		t.Errorf("Expected RoleManager, got %v", m.role)
	}
	if m.overlay != overlayNone {
		t.Errorf("Expected overlayNone, got %v", m.overlay)
	}
	if m.loaded {
		t.Error("Expected loaded to be false before the first refresh")
	}
}

// TestRefreshedMessage tests that a refresh outcome replaces the collection
func TestRefreshedMessage(t *testing.T) {
	m := newTestModel(t, access.RoleManager)

	requests := []workflow.Request{
		{ID: 1, Title: "VPN Access", Status: workflow.StatusPending},
		{ID: 2, Title: "New Laptop", Status: workflow.StatusApproved},
	}
	updated, cmd := m.Update(RefreshedMsg(store.Update{Seq: 1, Requests: requests}))
	m = updated.(Model)

	if !m.loaded {
		t.Error("Expected loaded to be true")
	}
	if len(m.requests) != 2 {
		t.Errorf("Expected 2 requests, got %d", len(m.requests))
	}
	if cmd == nil {
		t.Error("Expected resubscribe command after refresh")
	}
}

// TestRefreshErrorKeepsCollection tests that a failed refresh keeps data
func TestRefreshErrorKeepsCollection(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 1, Title: "VPN Access", Status: workflow.StatusPending})

	updated, _ := m.Update(RefreshedMsg(store.Update{Seq: 2, Err: errors.NewFetchError(nil)}))
	m = updated.(Model)

	if len(m.requests) != 1 {
		t.Errorf("Expected collection preserved, got %d requests", len(m.requests))
	}
	if m.lastErr == "" {
		t.Error("Expected lastErr to be recorded")
	}
}

// TestComposeOverlayOpens tests 'n' for employees
func TestComposeOverlayOpens(t *testing.T) {
	m := newTestModel(t, access.RoleEmployee)

	updated, _ := m.Update(keyMsg("n"))
	m = updated.(Model)

	if m.overlay != overlayCompose {
		t.Errorf("Expected overlayCompose, got %v", m.overlay)
	}
	if m.form == nil {
		t.Error("Expected a compose form")
	}
	if m.editingID != 0 {
		t.Errorf("Expected a fresh draft, got editing id %d", m.editingID)
	}
}

// TestComposeKeyIgnoredForManager tests that handler roles cannot compose
func TestComposeKeyIgnoredForManager(t *testing.T) {
	m := newTestModel(t, access.RoleManager)

	updated, _ := m.Update(keyMsg("n"))
	m = updated.(Model)

	if m.overlay != overlayNone {
		t.Errorf("Expected overlayNone, got %v", m.overlay)
	}
}

// TestRejectOverlayOpens tests 'x' on a selected request
func TestRejectOverlayOpens(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 42, Title: "VPN Access", Status: workflow.StatusPending, SubmitterName: "bob"})

	updated, _ := m.Update(keyMsg("x"))
	m = updated.(Model)

	if m.overlay != overlayReject {
		t.Errorf("Expected overlayReject, got %v", m.overlay)
	}
	if m.targetID != 42 {
		t.Errorf("Expected target 42, got %d", m.targetID)
	}
}

// TestOverlayExclusivity tests that opening one overlay closes any other
func TestOverlayExclusivity(t *testing.T) {
	m := newTestModel(t, access.RoleEmployee,
		workflow.Request{ID: 7, Title: "VPN Access", Status: workflow.StatusPending, SubmitterName: "alice"})

	updated, _ := m.Update(keyMsg("n"))
	m = updated.(Model)
	m.draftTitle = "half-typed"

	// Details replaces compose.
	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("enter"))
	m = updated.(Model)

	if m.overlay != overlayDetails {
		t.Errorf("Expected overlayDetails, got %v", m.overlay)
	}
	if m.form != nil {
		t.Error("Expected no form while viewing details")
	}
	if m.draftTitle != "" {
		t.Error("Expected abandoned draft to be cleared")
	}
}

// TestEscClosesOverlay tests esc on the details overlay
func TestEscClosesOverlay(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 1, Title: "VPN Access", Status: workflow.StatusPending})

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)
	if m.overlay != overlayDetails {
		t.Fatalf("Expected overlayDetails, got %v", m.overlay)
	}

	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)
	if m.overlay != overlayNone {
		t.Errorf("Expected overlayNone, got %v", m.overlay)
	}
}

// TestActionFailureKeepsOverlayAndReason tests the failed-rejection path
func TestActionFailureKeepsOverlayAndReason(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 42, Title: "VPN Access", Status: workflow.StatusPending})

	updated, _ := m.Update(keyMsg("x"))
	m = updated.(Model)
	m.rejectReason = "no budget this quarter"

	updated, _ = m.Update(ActionDoneMsg{Op: "rejection", ID: 42, Err: errors.NewBackendError(409, "already actioned")})
	m = updated.(Model)

	if m.overlay != overlayReject {
		t.Errorf("Expected overlay to stay open, got %v", m.overlay)
	}
	if m.rejectReason != "no budget this quarter" {
		t.Errorf("Expected typed reason preserved, got %q", m.rejectReason)
	}
	if m.overlayErr == "" {
		t.Error("Expected inline failure message")
	}
	if m.form == nil {
		t.Error("Expected form to be rebuilt")
	}
}

// TestActionSuccessClosesOverlay tests the success path
func TestActionSuccessClosesOverlay(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 42, Title: "VPN Access", Status: workflow.StatusPending})

	updated, _ := m.Update(keyMsg("x"))
	m = updated.(Model)
	m.rejectReason = "no budget"

	updated, cmd := m.Update(ActionDoneMsg{Op: "rejection", ID: 42})
	m = updated.(Model)

	if m.overlay != overlayNone {
		t.Errorf("Expected overlayNone, got %v", m.overlay)
	}
	if m.rejectReason != "" {
		t.Error("Expected reason cleared after success")
	}
	if m.notice == "" || m.noticeKind != noticeSuccess {
		t.Error("Expected a transient success notice")
	}
	if cmd == nil {
		t.Error("Expected notice expiry command")
	}
}

// TestNoticeExpiry tests that only the matching notice is cleared
func TestNoticeExpiry(t *testing.T) {
	m := newTestModel(t, access.RoleManager)

	updated, _ := m.showNotice("first", noticeSuccess)
	m = updated.(Model)
	staleSeq := m.noticeSeq

	updated, _ = m.showNotice("second", noticeError)
	m = updated.(Model)

	// Expiry of the superseded notice must not clear the current one.
	updated, _ = m.Update(NoticeExpiredMsg{Seq: staleSeq})
	m = updated.(Model)
	if m.notice != "second" {
		t.Errorf("Expected current notice to survive, got %q", m.notice)
	}

	updated, _ = m.Update(NoticeExpiredMsg{Seq: m.noticeSeq})
	m = updated.(Model)
	if m.notice != "" {
		t.Errorf("Expected notice cleared, got %q", m.notice)
	}
}

// TestManagersLoaded tests directory delivery
func TestManagersLoaded(t *testing.T) {
	m := newTestModel(t, access.RoleEmployee)

	updated, _ := m.Update(ManagersLoadedMsg{Managers: nil})
	m = updated.(Model)
	if len(m.managers) != 0 {
		t.Error("Expected no managers")
	}
}

// TestQuitKey tests 'q'
func TestQuitKey(t *testing.T) {
	m := newTestModel(t, access.RoleEmployee)

	updated, cmd := m.Update(keyMsg("q"))
	m = updated.(Model)

	if !m.quitting {
		t.Error("Expected quitting to be true")
	}
	if cmd == nil {
		t.Error("Expected quit command")
	}
}

// TestViewRendering tests that views render without crashing
func TestViewRendering(t *testing.T) {
	m := newTestModel(t, access.RoleManager,
		workflow.Request{ID: 1, Title: "VPN Access", Status: workflow.StatusPending, SubmitterName: "bob"})

	view := m.View()
	if !strings.Contains(view, "Manager Dashboard") {
		t.Error("Dashboard view should contain the title")
	}
	if !strings.Contains(view, "Pending") {
		t.Error("Dashboard view should contain the stats header")
	}

	updated, _ := m.Update(keyMsg("enter"))
	m = updated.(Model)
	view = m.View()
	if !strings.Contains(view, "VPN Access") {
		t.Error("Details view should contain the request title")
	}
}
