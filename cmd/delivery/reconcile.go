package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"delivery-scheduler/internal/connections/rabbitmq"
	"delivery-scheduler/internal/domain"
	dispatcher "delivery-scheduler/internal/microservices/dispatcher/service"
	"delivery-scheduler/internal/microservices/reconciler/service"
)

var (
	reconcileDate             string
	reconcileEndDate          string
	reconcileIncludeProcessed bool
	reconcileSave             bool
	reconcileDispatch         bool
	reconcileJSON             bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "List orders in a date window that have no delivery record yet",
	Long: `Fetch POS and storefront orders for the window, match them against the
delivery store and print the deliveries that still need scheduling.

Examples:
  delivery reconcile --date 2024-03-01
  delivery reconcile --date 2024-03-01 --end-date 2024-03-07 --include-processed
  delivery reconcile --date 2024-03-01 --save --dispatch`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileDate, "date", "d", "", "first day of the window (YYYY-MM-DD, default today)")
	reconcileCmd.Flags().StringVar(&reconcileEndDate, "end-date", "", "last day of the window (YYYY-MM-DD, default --date)")
	reconcileCmd.Flags().BoolVar(&reconcileIncludeProcessed, "include-processed", false, "also list orders that already have a delivery record")
	reconcileCmd.Flags().BoolVar(&reconcileSave, "save", false, "store the new deliveries")
	reconcileCmd.Flags().BoolVar(&reconcileDispatch, "dispatch", false, "publish a dispatch task for each saved delivery (requires --save)")
	reconcileCmd.Flags().BoolVarP(&reconcileJSON, "json", "j", false, "print JSON instead of a table")
}

func parseDay(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if reconcileDispatch && !reconcileSave {
		return fmt.Errorf("--dispatch requires --save")
	}
	start, err := parseDay(reconcileDate, time.Now())
	if err != nil {
		return err
	}
	end, err := parseDay(reconcileEndDate, time.Time{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	ds, err := a.svc.Reconcile(ctx, service.Request{Start: start, End: end, IncludeProcessed: reconcileIncludeProcessed})
	if err != nil {
		return err
	}
	if err := printDeliveries(ds); err != nil {
		return err
	}
	if !reconcileSave {
		return nil
	}

	saved, err := a.svc.Save(ctx, ds)
	if err != nil {
		return err
	}
	fmt.Printf("saved %d new deliveries\n", len(saved))
	if !reconcileDispatch || len(saved) == 0 {
		return nil
	}

	mq, err := rabbitmq.Dial(a.cfg.RabbitMQ)
	if err != nil {
		return err
	}
	defer mq.Close()
	loc, err := a.cfg.Reconcile.Location()
	if err != nil {
		return err
	}
	rep, err := dispatcher.New(mq, a.cfg.RabbitMQ.Exchange, loc, a.log).Publish(ctx, saved)
	fmt.Printf("dispatched %d, skipped %d\n", len(rep.Published), len(rep.Skipped))
	for number, reason := range rep.Skipped {
		fmt.Printf("  skipped %s: %s\n", number, reason)
	}
	return err
}

func printDeliveries(ds []domain.Delivery) error {
	if reconcileJSON {
		views := make([]domain.DeliveryView, 0, len(ds))
		for _, d := range ds {
			views = append(views, domain.NewDeliveryView(d))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tONLINE ID\tRECIPIENT\tTYPE\tSHIFT\tCREATED\tTRACKED")
	for _, d := range ds {
		v := domain.NewDeliveryView(d)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			v.OrderNumber, v.OnlineID, v.RecipientName, v.DeliveryType, v.Shift,
			d.CreatedAt.Format("2006-01-02 15:04"), v.Tracked)
	}
	return w.Flush()
}
