package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/requestdesk/requestdesk/internal/access"
)

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready || !m.loaded {
		return fmt.Sprintf("\n %s loading requests...\n", m.spinner.View())
	}

	switch m.overlay {
	case overlayCompose, overlayReject:
		return m.renderOverlayForm()
	case overlayDetails:
		return m.renderDetails()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.dashboardTitle()))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.notice != "" {
		style := m.styles.Success
		if m.noticeKind == noticeError {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.notice))
		b.WriteString("\n")
	}
	if m.lastErr != "" {
		b.WriteString(m.styles.Error.Render("refresh failed: " + m.lastErr))
		b.WriteString("\n")
	}
	if m.busy {
		b.WriteString(m.spinner.View() + " working...\n")
	}

	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

func (m Model) dashboardTitle() string {
	switch {
	case m.role.IsAdministrator():
		return "Admin Dashboard"
	case m.role.IsHandler():
		return "Manager Dashboard"
	default:
		return "My Requests"
	}
}

// renderStats shows the collection summary the dashboards lead with.
func (m Model) renderStats() string {
	stats := m.store.Stats(time.Now())

	parts := []string{
		m.styles.Stat.Render(fmt.Sprintf("Total %d", stats.Total)),
		m.styles.Stat.Render(fmt.Sprintf("Pending %d", stats.Pending)),
		m.styles.Stat.Render(fmt.Sprintf("Approved %d", stats.Approved)),
		m.styles.Stat.Render(fmt.Sprintf("Rejected %d", stats.Rejected)),
	}
	if m.role.IsHandler() {
		parts = append(parts,
			m.styles.StatWarn.Render(fmt.Sprintf("Escalated %d", stats.Escalated)),
			m.styles.StatWarn.Render(fmt.Sprintf("Urgent %d", stats.Urgent)),
		)
	}
	return strings.Join(parts, m.styles.Muted.Render("  •  "))
}

func (m Model) helpLine() string {
	keys := []string{"↑/↓ select", "enter details", "r refresh"}
	if m.role == access.RoleEmployee {
		keys = append(keys, "n new", "e edit")
	}
	if m.role.IsHandler() {
		keys = append(keys, "a approve", "x reject")
	}
	keys = append(keys, "q quit")
	return strings.Join(keys, " • ")
}

func (m Model) renderOverlayForm() string {
	var b strings.Builder
	if m.overlayErr != "" {
		b.WriteString(m.styles.Error.Render(m.overlayErr))
		b.WriteString("\n\n")
	}
	if m.form != nil {
		b.WriteString(m.form.View())
	}
	return b.String()
}

func (m Model) renderDetails() string {
	req, ok := m.store.Get(m.targetID)
	if !ok {
		return m.styles.Error.Render("request no longer visible") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Request #%d", req.ID)))
	b.WriteString("\n")

	write := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString(m.styles.Muted.Render(label+": ") + value + "\n")
	}

	write("Title", req.Title)
	write("Status", string(req.Status))
	write("Urgency", string(req.Urgency))
	write("Submitter", req.SubmitterName)
	write("Handler", req.HandlerName)
	write("SLA", formatDeadline(req.SLADeadline))
	if req.RejectionReason != "" {
		write("Rejection reason", req.RejectionReason)
		write("Actioned by", req.ActionedByName)
	}
	b.WriteString("\n" + req.Description + "\n")
	b.WriteString(m.styles.Help.Render("esc back"))

	return m.styles.Border.Render(b.String())
}
