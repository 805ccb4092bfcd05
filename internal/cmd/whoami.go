package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	sess, err := app.requireSession()
	if err != nil {
		return err
	}

	fmt.Printf("User:      %s\n", sess.Subject)
	fmt.Printf("Role:      %s\n", sess.Role)
	fmt.Printf("Dashboard: %s\n", access.DefaultRoute(sess.Role))
	fmt.Printf("Expires:   %s (in %s)\n",
		sess.ExpiresAt.Format(time.RFC3339),
		time.Until(sess.ExpiresAt).Round(time.Second))
	return nil
}
