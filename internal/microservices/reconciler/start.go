package reconciler

import (
	"context"
	"database/sql"

	"delivery-scheduler/internal/clients/pos"
	"delivery-scheduler/internal/clients/storefront"
	"delivery-scheduler/internal/common/cache"
	"delivery-scheduler/internal/common/httpx"
	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/microservices/reconciler/handler"
	"delivery-scheduler/internal/microservices/reconciler/repository"
	"delivery-scheduler/internal/microservices/reconciler/service"
)

// Caches are shared deliberately across the runs served by one process.
type Caches struct {
	Customers cache.Cache[string, pos.Customer]
	Orders    cache.Cache[string, domain.DeliveryOrderInfo]
}

func NewCaches() Caches {
	return Caches{
		Customers: cache.NewMap[string, pos.Customer](),
		Orders:    cache.NewMap[string, domain.DeliveryOrderInfo](),
	}
}

// NewService wires the feeds and the store into a reconciliation service.
func NewService(cfg *config.Config, db *sql.DB, caches Caches, lg *logger.Logger) (*service.Service, *repository.Repository, error) {
	loc, err := cfg.Reconcile.Location()
	if err != nil {
		return nil, nil, err
	}
	repo := repository.New(db)
	posClient := pos.New(cfg.POS, caches.Customers)
	sfClient := storefront.New(cfg.Storefront, repo.Shifts, caches.Orders, lg)
	svc := service.New(posClient, sfClient, repo.Deliveries, repo.Shifts,
		service.Options{OrderPrefix: cfg.Reconcile.OrderPrefix, Location: loc}, lg)
	return svc, repo, nil
}

// Start serves the reconciliation API on addr until ctx is done.
func Start(ctx context.Context, addr string, svc handler.ReconcileService, db handler.Pinger, lg *logger.Logger) error {
	h := handler.New(svc, db, lg)
	lg.Info("service_started", map[string]any{"addr": addr})
	return httpx.New(addr, handler.Router(h)).Run(ctx)
}
