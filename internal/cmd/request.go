package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/store"
	"github.com/requestdesk/requestdesk/internal/workflow"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Work with requests without opening the dashboard",
}

var listStatus string

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the requests visible to you",
	RunE:  runRequestList,
}

var (
	submitTitle       string
	submitDescription string
	submitUrgency     string
	submitManagerID   int
)

var requestSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new request",
	Long: `Submit a new request. Title and description are prompted when not
given as flags. Routing to a specific manager is optional; without it the
request goes to your default manager.`,
	RunE: runRequestSubmit,
}

var requestEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit one of your pending requests",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestEdit,
}

var requestApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending request",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestApprove,
}

var rejectReason string

var requestRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending request",
	Long:  `Reject a pending request. A non-empty reason is required and is shown to the submitter.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestReject,
}

var requestShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one request in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequestShow,
}

func init() {
	requestListCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (Pending, Approved, Rejected, Escalated)")

	requestSubmitCmd.Flags().StringVar(&submitTitle, "title", "", "request title")
	requestSubmitCmd.Flags().StringVar(&submitDescription, "description", "", "request description")
	requestSubmitCmd.Flags().StringVar(&submitUrgency, "urgency", string(workflow.UrgencyMedium), "urgency (Low, Medium, High, Critical)")
	requestSubmitCmd.Flags().IntVar(&submitManagerID, "manager-id", 0, "route to a specific manager")

	requestEditCmd.Flags().StringVar(&submitTitle, "title", "", "new title")
	requestEditCmd.Flags().StringVar(&submitDescription, "description", "", "new description")
	requestEditCmd.Flags().StringVar(&submitUrgency, "urgency", "", "new urgency")

	requestRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "rejection reason (required)")

	requestCmd.AddCommand(requestListCmd, requestSubmitCmd, requestEditCmd,
		requestApproveCmd, requestRejectCmd, requestShowCmd)
	rootCmd.AddCommand(requestCmd)
}

// openStore builds a refreshed store for a one-shot command.
func openStore(cmd *cobra.Command, app *app) (*store.Store, error) {
	sess, err := app.requireSession()
	if err != nil {
		return nil, err
	}

	st := app.newStore(sess)
	if err := st.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return st, nil
}

func parseRequestID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeValueInvalid, "request id must be a positive number")
	}
	return id, nil
}

func runRequestList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	st, err := openStore(cmd, app)
	if err != nil {
		return err
	}

	var filter workflow.Status
	if listStatus != "" {
		filter = workflow.Status(listStatus)
		if !filter.Valid() {
			return errors.New(errors.ErrCodeValueInvalid,
				fmt.Sprintf("unknown status %q", listStatus)).
				WithSuggestion("Valid statuses: Pending, Approved, Rejected, Escalated")
		}
	}

	requests := st.Snapshot()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tURGENCY\tSTATUS\tHANDLER\tSLA")
	for _, req := range requests {
		if filter != "" && req.Status != filter {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			req.ID, req.Title, req.Urgency, req.Status,
			orDash(req.HandlerName), formatSLA(req.SLADeadline))
	}
	return w.Flush()
}

func runRequestSubmit(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	st, err := openStore(cmd, app)
	if err != nil {
		return err
	}

	if st.Actor().Role != access.RoleEmployee {
		return errors.NewAccessDeniedError(string(st.Actor().Role), "submit requests")
	}

	var fields []huh.Field
	if submitTitle == "" {
		fields = append(fields, huh.NewInput().Title("Title").
			Value(&submitTitle).Validate(nonEmpty("title")))
	}
	if submitDescription == "" {
		fields = append(fields, huh.NewText().Title("Description").
			Value(&submitDescription).Validate(nonEmpty("description")))
	}
	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return fmt.Errorf("read request: %w", err)
		}
	}

	draft := workflow.Draft{
		Title:       submitTitle,
		Description: submitDescription,
		Urgency:     workflow.Urgency(submitUrgency),
	}
	if submitManagerID != 0 {
		draft.TargetManagerID = &submitManagerID
	}

	if err := st.SubmitNew(cmd.Context(), draft); err != nil {
		return err
	}
	fmt.Println("Request submitted")
	return nil
}

func runRequestEdit(cmd *cobra.Command, args []string) error {
	id, err := parseRequestID(args[0])
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	st, err := openStore(cmd, app)
	if err != nil {
		return err
	}

	current, ok := st.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeRequestNotFound, "no visible request with that id")
	}

	// Flags left unset keep the current value.
	draft := workflow.Draft{
		Title:       current.Title,
		Description: current.Description,
		Urgency:     current.Urgency,
	}
	if submitTitle != "" {
		draft.Title = submitTitle
	}
	if submitDescription != "" {
		draft.Description = submitDescription
	}
	if submitUrgency != "" {
		draft.Urgency = workflow.Urgency(submitUrgency)
	}

	if err := st.ApplyEdit(cmd.Context(), id, draft); err != nil {
		return err
	}
	fmt.Printf("Request #%d updated\n", id)
	return nil
}

func runRequestApprove(cmd *cobra.Command, args []string) error {
	return runTransition(cmd, args[0], workflow.StatusApproved, "")
}

func runRequestReject(cmd *cobra.Command, args []string) error {
	return runTransition(cmd, args[0], workflow.StatusRejected, rejectReason)
}

func runTransition(cmd *cobra.Command, arg string, to workflow.Status, reason string) error {
	id, err := parseRequestID(arg)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	if _, err := app.requireRole("action requests", handlerRoles()...); err != nil {
		return err
	}

	st, err := openStore(cmd, app)
	if err != nil {
		return err
	}

	if err := st.ApplyTransition(cmd.Context(), id, to, reason); err != nil {
		return err
	}
	fmt.Printf("Request #%d %s\n", id, strings.ToLower(string(to)))
	return nil
}

func runRequestShow(cmd *cobra.Command, args []string) error {
	id, err := parseRequestID(args[0])
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	st, err := openStore(cmd, app)
	if err != nil {
		return err
	}

	req, ok := st.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeRequestNotFound, "no visible request with that id")
	}

	fmt.Printf("Request #%d\n", req.ID)
	fmt.Printf("  Title:       %s\n", req.Title)
	fmt.Printf("  Status:      %s\n", req.Status)
	fmt.Printf("  Urgency:     %s\n", req.Urgency)
	fmt.Printf("  Submitter:   %s\n", orDash(req.SubmitterName))
	fmt.Printf("  Handler:     %s\n", orDash(req.HandlerName))
	fmt.Printf("  SLA:         %s\n", formatSLA(req.SLADeadline))
	if req.RejectionReason != "" {
		fmt.Printf("  Rejected by: %s\n", orDash(req.ActionedByName))
		fmt.Printf("  Reason:      %s\n", req.RejectionReason)
	}
	fmt.Printf("\n%s\n", req.Description)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSLA(deadline time.Time) string {
	if deadline.IsZero() {
		return "-"
	}
	if time.Now().After(deadline) {
		return deadline.Format(time.RFC3339) + " (overdue)"
	}
	return deadline.Format(time.RFC3339)
}
