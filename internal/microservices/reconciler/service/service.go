package service

import (
	"context"
	"time"

	"delivery-scheduler/internal/clients/pos"
	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/domain"
)

// POSFeed is the slice of the POS client the engine needs.
type POSFeed interface {
	SearchByDates(ctx context.Context, start, end time.Time) ([]pos.Order, error)
	GetOrder(ctx context.Context, number string) (pos.Order, error)
	GetCustomer(ctx context.Context, id string) (pos.Customer, error)
	GetCustomersByID(ctx context.Context, ids []string) (map[string]pos.Customer, error)
}

type StorefrontFeed interface {
	SearchByTimeRange(ctx context.Context, start, end time.Time, deliveryOnly bool) ([]domain.DeliveryOrderInfo, error)
	FetchByName(ctx context.Context, names []string) (map[string]*domain.DeliveryOrderInfo, error)
}

type DeliveryStore interface {
	FindByOrderNumbers(ctx context.Context, numbers []string) (map[string]domain.Delivery, error)
	FindByOnlineIDs(ctx context.Context, ids []string) (map[string]domain.Delivery, error)
	FindByOrderNumber(ctx context.Context, number string) (domain.Delivery, bool, error)
	ListWithOrderNumbers(ctx context.Context) ([]domain.Delivery, error)
	Create(ctx context.Context, d *domain.Delivery) error
	Update(ctx context.Context, d *domain.Delivery) error
}

type ShiftStore interface {
	ListByDate(ctx context.Context, date time.Time) ([]domain.Shift, error)
	CreateShiftTemplate(ctx context.Context, start, end time.Time, slots int) (int, error)
}

type Options struct {
	// OrderPrefix builds placeholder order numbers for storefront orders the
	// POS has not seen yet: "<prefix>-<name>".
	OrderPrefix string
	// Location defines the local day used for date windows.
	Location *time.Location
}

type Service struct {
	pos        POSFeed
	storefront StorefrontFeed
	deliveries DeliveryStore
	shifts     ShiftStore
	opts       Options
	log        *logger.Logger
}

func New(p POSFeed, sf StorefrontFeed, deliveries DeliveryStore, shifts ShiftStore, opts Options, lg *logger.Logger) *Service {
	if opts.OrderPrefix == "" {
		opts.OrderPrefix = "SHOP"
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if lg == nil {
		lg = logger.Discard()
	}
	return &Service{pos: p, storefront: sf, deliveries: deliveries, shifts: shifts, opts: opts, log: lg}
}

// WithLogger returns a copy of s logging through lg, typically one stamped
// with a per-run request id.
func (s *Service) WithLogger(lg *logger.Logger) *Service {
	cp := *s
	cp.log = lg
	return &cp
}

func (s *Service) localDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.opts.Location)
}
