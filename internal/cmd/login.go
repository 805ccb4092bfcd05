package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session credential",
	Long: `Exchange a username and password for a bearer credential and store it
for subsequent commands. The password is always prompted, never taken from
flags or arguments.`,
	RunE: runLogin,
}

var loginUsername string

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "account username")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	username := loginUsername
	var password string

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&username).
			Validate(nonEmpty("username")))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Validate(nonEmpty("password")))

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	token, err := app.client.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	sess, err := app.sessions.Establish(token)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", sess.Subject, sess.Role)
	fmt.Printf("Dashboard: %s\n", access.DefaultRoute(sess.Role))
	return nil
}

func nonEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
