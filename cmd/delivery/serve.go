package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"delivery-scheduler/internal/microservices/reconciler"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reconciliation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		port := a.cfg.HTTP.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		return reconciler.Start(ctx, fmt.Sprintf(":%d", port), a.svc, a.db, a.log)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 3000, "HTTP port (overrides http.port)")
}
