package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:     "delivery",
	Short:   "Reconcile POS and storefront orders into scheduled deliveries",
	Version: Version,
	Long: `delivery merges the point-of-sale and online storefront order feeds
against the local delivery store and reports the orders that still need a
delivery record.

Configuration is read from --config (or config.yaml in the working directory)
and overridden by DELIVERY_* environment variables, e.g. DELIVERY_POS_API_KEY.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (YAML)")

	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(shiftsCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
