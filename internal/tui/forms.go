package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/requestdesk/requestdesk/internal/workflow"
)

// buildForm creates the huh form for the active overlay. Fields bind to the
// model's draft state, so rebuilding after a failed submission shows exactly
// what the user already typed.
func (m *Model) buildForm() *huh.Form {
	switch m.overlay {
	case overlayCompose:
		return m.buildComposeForm()
	case overlayReject:
		return m.buildRejectForm()
	default:
		return nil
	}
}

func (m *Model) buildComposeForm() *huh.Form {
	title := "New Request"
	if m.editingID != 0 {
		title = fmt.Sprintf("Edit Request #%d", m.editingID)
	}

	var urgencyOptions []huh.Option[string]
	for _, u := range []workflow.Urgency{
		workflow.UrgencyLow, workflow.UrgencyMedium,
		workflow.UrgencyHigh, workflow.UrgencyCritical,
	} {
		urgencyOptions = append(urgencyOptions, huh.NewOption(string(u), string(u)))
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("title").
			Title("Title").
			Value(&m.draftTitle).
			Validate(requireText("title")),
		huh.NewText().
			Key("description").
			Title("Description").
			Value(&m.draftDescription).
			Validate(requireText("description")),
		huh.NewSelect[string]().
			Key("urgency").
			Title("Urgency").
			Options(urgencyOptions...).
			Value(&m.draftUrgency),
	}

	// Handler targeting only applies to new submissions; edits keep the
	// current assignment.
	if m.editingID == 0 && len(m.managers) > 0 {
		options := []huh.Option[int]{huh.NewOption("Default manager", 0)}
		for _, mgr := range m.managers {
			options = append(options, huh.NewOption(mgr.Username, mgr.ID))
		}
		fields = append(fields, huh.NewSelect[int]().
			Key("manager").
			Title("Route to").
			Options(options...).
			Value(&m.draftManager))
	}

	return huh.NewForm(
		huh.NewGroup(fields...).
			Title(title).
			Description("Enter to submit • Esc to cancel"),
	)
}

func (m *Model) buildRejectForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Key("reason").
				Title(fmt.Sprintf("Reject Request #%d", m.targetID)).
				Description("A reason is required and will be shown to the submitter").
				Value(&m.rejectReason).
				Validate(requireText("rejection reason")),
		),
	)
}

func requireText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
