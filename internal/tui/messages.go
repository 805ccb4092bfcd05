package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/requestdesk/requestdesk/internal/api"
	"github.com/requestdesk/requestdesk/internal/store"
)

// Custom messages for dashboard events

// RefreshedMsg carries the outcome of one store refresh: a fresh snapshot or
// the error that prevented one.
type RefreshedMsg store.Update

// ActionDoneMsg reports the outcome of a dispatched store operation.
type ActionDoneMsg struct {
	Op  string
	ID  int
	Err error
}

// ManagersLoadedMsg carries the assignable handlers for the compose form.
type ManagersLoadedMsg struct {
	Managers []api.Manager
	Err      error
}

// NoticeExpiredMsg clears a transient notice. The sequence guards against an
// old timer clearing a newer notice.
type NoticeExpiredMsg struct {
	Seq int
}

// waitForUpdate blocks on the store's subscription channel and converts the
// next refresh outcome into a message. Re-issued after every delivery.
func waitForUpdate(updates <-chan store.Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return RefreshedMsg(update)
	}
}

// expireNotice schedules the removal of the notice with the given sequence.
func expireNotice(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Seq: seq}
	})
}

// loadManagers fetches the handler directory in the background.
func loadManagers(ctx context.Context, directory Directory) tea.Cmd {
	return func() tea.Msg {
		managers, err := directory.ListManagers(ctx)
		return ManagersLoadedMsg{Managers: managers, Err: err}
	}
}
