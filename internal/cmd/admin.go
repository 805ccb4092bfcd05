package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/requestdesk/requestdesk/internal/access"
	"github.com/requestdesk/requestdesk/internal/api"
	"github.com/requestdesk/requestdesk/internal/errors"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator-only service settings",
}

var slaMinutes int

var adminSLACmd = &cobra.Command{
	Use:   "sla",
	Short: "Set the default SLA window for new requests",
	RunE:  runAdminSLA,
}

var (
	newUserName      string
	newUserRole      string
	newUserManagerID int
)

var adminUserCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var adminUserCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Provision a new account",
	Long: `Provision a new account. The password is always prompted. Employee
accounts may be assigned a default manager with --manager-id.`,
	RunE: runAdminUserCreate,
}

func init() {
	adminSLACmd.Flags().IntVar(&slaMinutes, "minutes", 0, "SLA window in minutes (required)")
	_ = adminSLACmd.MarkFlagRequired("minutes")

	adminUserCreateCmd.Flags().StringVar(&newUserName, "username", "", "account username (required)")
	adminUserCreateCmd.Flags().StringVar(&newUserRole, "role", "", "account role (required)")
	adminUserCreateCmd.Flags().IntVar(&newUserManagerID, "manager-id", 0, "default manager for Employee accounts")
	_ = adminUserCreateCmd.MarkFlagRequired("username")
	_ = adminUserCreateCmd.MarkFlagRequired("role")

	adminUserCmd.AddCommand(adminUserCreateCmd)
	adminCmd.AddCommand(adminSLACmd, adminUserCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminSLA(cmd *cobra.Command, args []string) error {
	if slaMinutes <= 0 {
		return errors.New(errors.ErrCodeValueInvalid, "SLA window must be a positive number of minutes")
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	if _, err := app.requireRole("change service settings", access.RoleAdministrator); err != nil {
		return err
	}

	if err := app.client.SetSLA(cmd.Context(), slaMinutes); err != nil {
		return err
	}
	fmt.Printf("SLA window set to %d minutes\n", slaMinutes)
	return nil
}

func runAdminUserCreate(cmd *cobra.Command, args []string) error {
	role, err := access.ParseRole(newUserRole)
	if err != nil {
		return err
	}

	app, err := newApp()
	if err != nil {
		return err
	}

	if _, err := app.requireRole("provision accounts", access.RoleAdministrator); err != nil {
		return err
	}

	var password string
	prompt := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Password for %s", newUserName)).
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(nonEmpty("password")),
	))
	if err := prompt.Run(); err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	account := api.NewAccount{
		Username: newUserName,
		Password: password,
		Role:     string(role),
	}
	if newUserManagerID != 0 {
		account.ManagerID = &newUserManagerID
	}

	created, err := app.client.CreateUser(cmd.Context(), account)
	if err != nil {
		return err
	}
	fmt.Printf("Created account %s (%s) with id %d\n", created.Username, created.Role, created.ID)
	return nil
}
