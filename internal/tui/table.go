package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// newTable builds the request table for the model's role. Employees see who
// handles their requests; handler roles see who submitted them.
func (m Model) newTable() table.Model {
	counterpart := "Handler"
	if m.role.IsHandler() {
		counterpart = "Submitter"
	}

	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Title", Width: 28},
		{Title: "Urgency", Width: 9},
		{Title: "Status", Width: 10},
		{Title: counterpart, Width: 14},
		{Title: "SLA", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("63")).
		Bold(true)
	t.SetStyles(styles)

	return t
}

func (m Model) tableRows() []table.Row {
	rows := make([]table.Row, 0, len(m.requests))
	for _, req := range m.requests {
		counterpart := req.HandlerName
		if m.role.IsHandler() {
			counterpart = req.SubmitterName
		}
		rows = append(rows, table.Row{
			strconv.Itoa(req.ID),
			req.Title,
			string(req.Urgency),
			string(req.Status),
			counterpart,
			formatDeadline(req.SLADeadline),
		})
	}
	return rows
}

func formatDeadline(deadline time.Time) string {
	if deadline.IsZero() {
		return "-"
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return "overdue"
	}
	if remaining < time.Hour {
		return strconv.Itoa(int(remaining.Minutes())) + "m left"
	}
	return deadline.Format("Jan 2 15:04")
}
