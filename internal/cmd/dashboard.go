package cmd

import (
	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/errors"
	"github.com/requestdesk/requestdesk/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard for your role",
	Long: `Open the role's dashboard: employees manage their own requests,
managers work the approval queue, administrators see the full picture.
The view refreshes automatically while open.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// rolesForRoute returns the roles a dashboard route admits.
func rolesForRoute(route access.Route) []access.Role {
	switch route {
	case access.RouteEmployeeDashboard:
		return []access.Role{access.RoleEmployee}
	case access.RouteManagerDashboard:
		return []access.Role{access.RoleManager, access.RoleBackupManager}
	case access.RouteAdminDashboard:
		return []access.Role{access.RoleAdministrator}
	default:
		return nil
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	sess, err := app.requireSession()
	if err != nil {
		return err
	}

	target := access.DefaultRoute(sess.Role)
	decision := access.Authorize(app.sessions.State(), rolesForRoute(target)...)
	if !decision.Allowed() {
		if decision.Target == access.RouteLogin {
			return errors.NewSessionMissingError()
		}
		return errors.NewAccessDeniedError(string(sess.Role), "open this dashboard")
	}

	ctx := cmd.Context()
	st := app.newStore(sess)
	st.Start(ctx, app.cfg.RefreshInterval.Std())
	defer st.Stop()

	return tui.Run(ctx, st, app.client)
}
