package handler

import (
	"context"
	"time"

	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/microservices/reconciler/service"
)

type ReconcileService interface {
	Reconcile(ctx context.Context, req service.Request) ([]domain.Delivery, error)
	Shifts(ctx context.Context, date time.Time) ([]domain.Shift, error)
}

// Pinger reports whether a backing connection is usable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DeliveryHandler *DeliveryHandler
	db              Pinger
	log             *logger.Logger
}

func New(svc ReconcileService, db Pinger, lg *logger.Logger) *Handler {
	if lg == nil {
		lg = logger.Discard()
	}
	return &Handler{
		DeliveryHandler: NewDeliveryHandler(svc),
		db:              db,
		log:             lg,
	}
}
