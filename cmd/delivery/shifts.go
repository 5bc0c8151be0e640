package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var shiftSlots int

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "Manage delivery shifts",
}

var shiftsCreateCmd = &cobra.Command{
	Use:   "create START END",
	Short: "Create AM and PM shifts for every day in [START, END)",
	Long: `Create an AM and a PM shift for each day from START up to, but not
including, END. Days that already have a shift keep it.

Example:
  delivery shifts create 2024-03-01 2024-04-01 --slots 12`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseDay(args[0], time.Time{})
		if err != nil {
			return err
		}
		end, err := parseDay(args[1], time.Time{})
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		n, err := a.svc.CreateShifts(cmd.Context(), start, end, shiftSlots)
		if err != nil {
			return err
		}
		fmt.Printf("created %d shifts\n", n)
		return nil
	},
}

func init() {
	shiftsCreateCmd.Flags().IntVarP(&shiftSlots, "slots", "n", 10, "deliveries per shift")
	shiftsCmd.AddCommand(shiftsCreateCmd)
}
