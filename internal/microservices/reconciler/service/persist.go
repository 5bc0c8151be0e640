package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/microservices/reconciler/repository"
)

// Save stores the unsaved deliveries and returns them with ids filled in.
// Rows the store rejects as duplicates (another run got there first) are
// logged and skipped.
func (s *Service) Save(ctx context.Context, ds []domain.Delivery) ([]domain.Delivery, error) {
	var saved []domain.Delivery
	for i := range ds {
		d := ds[i]
		if d.Persisted() {
			continue
		}
		if err := s.deliveries.Create(ctx, &d); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.log.Warn("delivery_duplicate", map[string]any{"order_number": d.OrderNumber, "online_id": d.OnlineID})
				continue
			}
			return saved, err
		}
		s.log.Info("delivery_created", map[string]any{"id": d.ID, "order_number": d.OrderNumber})
		saved = append(saved, d)
	}
	return saved, nil
}

// Sync refreshes a stored delivery from its POS order: recipient, contact and
// address come from the order's only customer, and new line items are added.
func (s *Service) Sync(ctx context.Context, orderNumber string) (domain.Delivery, error) {
	d, found, err := s.deliveries.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return domain.Delivery{}, err
	}
	if !found {
		return domain.Delivery{}, &domain.NotFoundError{Kind: "delivery", ID: domain.NormalizeOrderNumber(orderNumber)}
	}

	o, err := s.pos.GetOrder(ctx, d.OrderNumber)
	if err != nil {
		return domain.Delivery{}, err
	}
	if n := len(o.CustomerList()); n != 1 {
		return domain.Delivery{}, &domain.AmbiguousCustomerError{OrderID: o.ID, Count: n}
	}
	cu, _, err := s.customerFor(ctx, o)
	if err != nil {
		return domain.Delivery{}, err
	}
	applyCustomer(&d, cu)
	added := addItems(&d, o)

	if err := s.deliveries.Update(ctx, &d); err != nil {
		return domain.Delivery{}, err
	}
	s.log.Info("delivery_synced", map[string]any{"id": d.ID, "order_number": d.OrderNumber, "items_added": added})
	return d, nil
}

type SyncReport struct {
	Synced int
	Failed int
}

// SyncAll syncs every stored delivery that has a real POS order number.
// Per-order failures are logged and counted; configuration errors abort.
func (s *Service) SyncAll(ctx context.Context) (SyncReport, error) {
	ds, err := s.deliveries.ListWithOrderNumbers(ctx)
	if err != nil {
		return SyncReport{}, err
	}
	var rep SyncReport
	placeholder := strings.ToUpper(s.opts.OrderPrefix) + "-"
	for _, d := range ds {
		if strings.HasPrefix(d.NormalizedOrderNumber(), placeholder) {
			continue
		}
		if _, err := s.Sync(ctx, d.OrderNumber); err != nil {
			if domain.IsConfiguration(err) {
				return rep, err
			}
			s.log.Error("delivery_sync_failed", err, map[string]any{"order_number": d.OrderNumber})
			rep.Failed++
			continue
		}
		rep.Synced++
	}
	return rep, nil
}

func (s *Service) Shifts(ctx context.Context, date time.Time) ([]domain.Shift, error) {
	return s.shifts.ListByDate(ctx, s.localDay(date))
}

// CreateShifts adds AM and PM shifts for each day in [start, end).
func (s *Service) CreateShifts(ctx context.Context, start, end time.Time, slots int) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	if slots < 0 {
		return 0, fmt.Errorf("slots must not be negative: %d", slots)
	}
	n, err := s.shifts.CreateShiftTemplate(ctx, start, end, slots)
	if err != nil {
		return 0, err
	}
	s.log.Info("shifts_created", map[string]any{
		"start": start.Format(time.DateOnly), "end": end.Format(time.DateOnly), "created": n,
	})
	return n, nil
}
