package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the shifts, deliveries and items tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.repo.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("schema is up to date")
		return nil
	},
}
