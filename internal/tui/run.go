package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/requestdesk/requestdesk/internal/store"
)

// Run starts the dashboard program over an already-started store. The caller
// owns the store's polling lifecycle and stops it when Run returns.
func Run(ctx context.Context, st *store.Store, directory Directory) error {
	model := New(ctx, st, directory)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
