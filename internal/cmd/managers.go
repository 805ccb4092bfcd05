package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "List the accounts requests can be routed to",
	RunE:  runManagers,
}

func init() {
	rootCmd.AddCommand(managersCmd)
}

func runManagers(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if _, err := app.requireSession(); err != nil {
		return err
	}

	managers, err := app.client.ListManagers(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME")
	for _, m := range managers {
		fmt.Fprintf(w, "%d\t%s\n", m.ID, m.Username)
	}
	return w.Flush()
}
