// Package tui implements the role-aware dashboard: a bubbletea program that
// renders the request store and dispatches workflow actions through it. All
// transient interaction state lives in a single overlay machine so at most
// one modal (compose, reject, details) is ever active.
package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/api"
	"github.com/requestdesk/requestdesk/internal/store"
	"github.com/requestdesk/requestdesk/internal/workflow"
)

// noticeDuration is how long a transient notice stays visible.
const noticeDuration = 4 * time.Second

// Directory lists the accounts assignable as request handlers. The API
// client implements it.
type Directory interface {
	ListManagers(ctx context.Context) ([]api.Manager, error)
}

// overlayKind identifies the active modal. Exactly one is active at a time;
// opening one closes any other.
type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayCompose
	overlayReject
	overlayDetails
)

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeError
)

// Model is the dashboard state shared by the employee, manager, and admin
// views. The role decides which actions are offered; the store and the
// backend enforce them regardless.
type Model struct {
	ctx       context.Context
	store     *store.Store
	directory Directory
	role      access.Role

	// Collection state, replaced wholesale on every refresh.
	requests []workflow.Request
	loaded   bool

	table   table.Model
	spinner spinner.Model

	// Overlay state
	overlay    overlayKind
	form       *huh.Form
	editingID  int // nonzero while editing an existing request
	targetID   int // subject of reject and details overlays
	overlayErr string

	// Draft fields survive form rebuilds, so a failed submission keeps
	// what the user typed.
	draftTitle       string
	draftDescription string
	draftUrgency     string
	draftManager     int
	rejectReason     string

	managers []api.Manager

	// Transient notice state
	notice     string
	noticeKind noticeKind
	noticeSeq  int

	busy     bool
	lastErr  string
	width    int
	height   int
	ready    bool
	quitting bool

	styles Styles
}

// New creates a dashboard model for the store's actor.
func New(ctx context.Context, st *store.Store, directory Directory) Model {
	role := st.Actor().Role

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		store:     st,
		directory: directory,
		role:      role,
		spinner:   sp,
		styles:    DefaultStyles(),
	}
	m.table = m.newTable()
	return m
}

// Init starts the store subscription and, for employees, loads the handler
// directory used by the compose form.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		waitForUpdate(m.store.Updates()),
	}
	if m.role == access.RoleEmployee && m.directory != nil {
		cmds = append(cmds, loadManagers(m.ctx, m.directory))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case RefreshedMsg:
		return m.handleRefreshed(store.Update(msg))

	case ActionDoneMsg:
		return m.handleActionDone(msg)

	case ManagersLoadedMsg:
		if msg.Err == nil {
			m.managers = msg.Managers
		}
		return m, nil

	case NoticeExpiredMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	if m.overlay == overlayCompose || m.overlay == overlayReject {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleRefreshed(update store.Update) (tea.Model, tea.Cmd) {
	resubscribe := waitForUpdate(m.store.Updates())

	if update.Err != nil {
		// Keep the last good collection visible; the next scheduled
		// refresh retries on its own.
		m.lastErr = update.Err.Error()
		return m, resubscribe
	}

	m.lastErr = ""
	m.loaded = true
	m.requests = update.Requests
	m.table.SetRows(m.tableRows())
	return m, resubscribe
}

func (m Model) handleActionDone(msg ActionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.Err != nil {
		if m.overlay == overlayCompose || m.overlay == overlayReject {
			// The overlay stays open with everything typed so far;
			// only the form shell is rebuilt.
			m.overlayErr = msg.Err.Error()
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m.showNotice(msg.Err.Error(), noticeError)
	}

	m.closeOverlay()
	return m.showNotice(msg.Op+" succeeded", noticeSuccess)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.overlay == overlayDetails {
		switch msg.String() {
		case "esc", "enter", "q":
			m.closeOverlay()
		}
		return m, nil
	}

	if m.overlay == overlayCompose || m.overlay == overlayReject {
		if msg.String() == "esc" {
			m.closeOverlay()
			return m, nil
		}
		return m.updateForm(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "r":
		return m, m.refreshCmd()

	case "n":
		if m.role == access.RoleEmployee {
			return m.openCompose(0)
		}

	case "e":
		if m.role == access.RoleEmployee {
			if req, ok := m.selected(); ok {
				if req.Status.Actionable() {
					return m.openCompose(req.ID)
				}
				return m.showNotice("only pending requests can be edited", noticeError)
			}
		}

	case "a":
		if m.role.IsHandler() {
			if req, ok := m.selected(); ok {
				return m.dispatchTransition(req.ID, workflow.StatusApproved, "")
			}
		}

	case "x":
		if m.role.IsHandler() {
			if req, ok := m.selected(); ok {
				return m.openReject(req.ID)
			}
		}

	case "enter":
		if req, ok := m.selected(); ok {
			m.overlay = overlayDetails
			m.targetID = req.ID
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
		if m.form.State == huh.StateCompleted {
			return m.submitOverlay()
		}
	}
	return m, cmd
}

// submitOverlay dispatches the completed form through the store.
func (m Model) submitOverlay() (tea.Model, tea.Cmd) {
	m.busy = true
	m.overlayErr = ""

	switch m.overlay {
	case overlayCompose:
		draft := m.currentDraft()
		if m.editingID != 0 {
			return m, m.editCmd(m.editingID, draft)
		}
		return m, m.submitCmd(draft)

	case overlayReject:
		return m, m.transitionCmd("rejection", m.targetID, workflow.StatusRejected, m.rejectReason)
	}
	return m, nil
}

func (m Model) dispatchTransition(id int, to workflow.Status, reason string) (tea.Model, tea.Cmd) {
	m.busy = true
	op := "approval"
	if to == workflow.StatusRejected {
		op = "rejection"
	}
	return m, m.transitionCmd(op, id, to, reason)
}

func (m *Model) closeOverlay() {
	m.overlay = overlayNone
	m.form = nil
	m.editingID = 0
	m.targetID = 0
	m.overlayErr = ""
	m.draftTitle = ""
	m.draftDescription = ""
	m.draftUrgency = ""
	m.draftManager = 0
	m.rejectReason = ""
}

func (m Model) openCompose(editingID int) (tea.Model, tea.Cmd) {
	m.closeOverlay()
	m.overlay = overlayCompose
	m.editingID = editingID
	m.draftUrgency = string(workflow.UrgencyMedium)

	if editingID != 0 {
		if req, ok := m.store.Get(editingID); ok {
			m.draftTitle = req.Title
			m.draftDescription = req.Description
			m.draftUrgency = string(req.Urgency)
		}
	}

	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) openReject(targetID int) (tea.Model, tea.Cmd) {
	m.closeOverlay()
	m.overlay = overlayReject
	m.targetID = targetID
	m.form = m.buildForm()
	return m, m.form.Init()
}

func (m Model) showNotice(text string, kind noticeKind) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	m.noticeKind = kind
	return m, expireNotice(m.noticeSeq, noticeDuration)
}

func (m Model) currentDraft() workflow.Draft {
	draft := workflow.Draft{
		Title:       m.draftTitle,
		Description: m.draftDescription,
		Urgency:     workflow.Urgency(m.draftUrgency),
	}
	if m.draftManager != 0 {
		id := m.draftManager
		draft.TargetManagerID = &id
	}
	return draft
}

// selected returns the request under the table cursor.
func (m Model) selected() (workflow.Request, bool) {
	row := m.table.SelectedRow()
	if len(row) == 0 {
		return workflow.Request{}, false
	}
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return workflow.Request{}, false
	}
	return m.store.Get(id)
}

// Store action commands. Each runs the blocking call off the update loop and
// reports back as an ActionDoneMsg.

func (m Model) refreshCmd() tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		// Outcome arrives through the subscription channel.
		_ = st.Refresh(ctx)
		return nil
	}
}

func (m Model) submitCmd(draft workflow.Draft) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return ActionDoneMsg{Op: "submission", Err: st.SubmitNew(ctx, draft)}
	}
}

func (m Model) editCmd(id int, draft workflow.Draft) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return ActionDoneMsg{Op: "edit", ID: id, Err: st.ApplyEdit(ctx, id, draft)}
	}
}

func (m Model) transitionCmd(op string, id int, to workflow.Status, reason string) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		return ActionDoneMsg{Op: op, ID: id, Err: st.ApplyTransition(ctx, id, to, reason)}
	}
}
