package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncOrder string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh stored deliveries from their POS orders",
	Long: `Re-read recipient, contact, address and line items from the POS for one
delivery (--order) or for every stored delivery with a POS order number.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if syncOrder != "" {
			d, err := a.svc.Sync(cmd.Context(), syncOrder)
			if err != nil {
				return err
			}
			fmt.Printf("synced %s (%s, %d items)\n", d.OrderNumber, d.RecipientName(), len(d.Items))
			return nil
		}

		rep, err := a.svc.SyncAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("synced %d deliveries, %d failed\n", rep.Synced, rep.Failed)
		return nil
	},
}

func init() {
	syncCmd.Flags().StringVarP(&syncOrder, "order", "o", "", "POS order number to sync")
}
