package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"delivery-scheduler/internal/clients/pos"
	"delivery-scheduler/internal/domain"
)

var ErrInvalidRange = errors.New("end date is before start date")

type Request struct {
	Start time.Time
	// End defaults to Start.
	End              time.Time
	IncludeProcessed bool
}

type posCandidate struct {
	order pos.Order
	typ   domain.DeliveryType
}

// buckets is the POS feed split by classification.
type buckets struct {
	linked      map[string]posCandidate // storefront name -> POS order
	linkedNames []string
	posOnly     []posCandidate
}

func partition(orders []pos.Order) buckets {
	b := buckets{linked: make(map[string]posCandidate)}
	for _, o := range orders {
		typ, isDelivery := pos.Classify(o)
		if name, ok := pos.ExtractCrossReference(o); ok {
			if _, dup := b.linked[name]; !dup {
				b.linkedNames = append(b.linkedNames, name)
			}
			if !isDelivery {
				typ = domain.DeliveryTypeWhiteGlove
			}
			b.linked[name] = posCandidate{order: o, typ: typ}
			continue
		}
		if isDelivery {
			b.posOnly = append(b.posOnly, posCandidate{order: o, typ: typ})
		}
	}
	return b
}

// Reconcile merges the POS and storefront feeds for the window against the
// delivery store and returns the deliveries that need scheduling, newest
// first. Tracked deliveries are included only when IncludeProcessed is set.
func (s *Service) Reconcile(ctx context.Context, req Request) ([]domain.Delivery, error) {
	start := s.localDay(req.Start)
	end := start
	if !req.End.IsZero() {
		end = s.localDay(req.End)
	}
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	s.log.Info("reconcile_started", map[string]any{
		"start": start.Format(time.DateOnly), "end": end.Format(time.DateOnly), "include_processed": req.IncludeProcessed,
	})

	posOrders, err := s.pos.SearchByDates(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("pos feed: %w", err)
	}
	online, err := s.storefront.SearchByTimeRange(ctx, start, end, true)
	if err != nil {
		return nil, fmt.Errorf("storefront feed: %w", err)
	}

	b := partition(posOrders)
	online, err = s.foldLinked(ctx, b, online)
	if err != nil {
		return nil, err
	}

	if len(b.posOnly) == 0 && len(online) == 0 {
		s.log.Info("reconcile_empty", nil)
		return []domain.Delivery{}, nil
	}

	numbers := make([]string, 0, len(b.posOnly)+len(b.linked))
	for _, c := range b.posOnly {
		numbers = append(numbers, c.order.ID)
	}
	for _, name := range b.linkedNames {
		numbers = append(numbers, b.linked[name].order.ID)
	}
	onlineIDs := make([]string, 0, len(online))
	for _, info := range online {
		onlineIDs = append(onlineIDs, info.OnlineID)
	}

	byNumber, err := s.deliveries.FindByOrderNumbers(ctx, numbers)
	if err != nil {
		return nil, err
	}
	byOnline, err := s.deliveries.FindByOnlineIDs(ctx, onlineIDs)
	if err != nil {
		return nil, err
	}

	if err := s.prefetchCustomers(ctx, b, byNumber); err != nil {
		return nil, err
	}

	res := newResultSet()
	for _, c := range b.posOnly {
		if d, ok := byNumber[domain.NormalizeOrderNumber(c.order.ID)]; ok {
			if req.IncludeProcessed {
				res.add(d)
			}
			continue
		}
		d, err := s.deliveryFromPOS(ctx, c.order, c.typ)
		if err != nil {
			return nil, err
		}
		res.add(d)
	}

	for _, info := range online {
		linked, hasLinked := b.linked[info.Name]
		tracked, ok := byOnline[info.OnlineID]
		if !ok && hasLinked {
			tracked, ok = byNumber[domain.NormalizeOrderNumber(linked.order.ID)]
		}
		if ok {
			if req.IncludeProcessed {
				res.add(tracked)
			}
			continue
		}

		number := s.opts.OrderPrefix + "-" + info.Name
		typ := domain.DeliveryTypeWhiteGlove
		if hasLinked {
			number = domain.NormalizeOrderNumber(linked.order.ID)
			typ = linked.typ
		}
		res.add(deliveryFromStorefront(info, number, typ))
	}

	out := res.sorted()
	s.log.Info("reconcile_finished", map[string]any{
		"pos_orders": len(posOrders), "storefront_orders": len(online), "deliveries": len(out),
	})
	return out, nil
}

// foldLinked adds the storefront orders that linked POS orders reference but
// that fell outside the storefront's window. An unresolvable name is an
// integrity fault.
func (s *Service) foldLinked(ctx context.Context, b buckets, online []domain.DeliveryOrderInfo) ([]domain.DeliveryOrderInfo, error) {
	present := make(map[string]bool, len(online))
	for _, info := range online {
		present[info.Name] = true
	}
	var missing []string
	for _, name := range b.linkedNames {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return online, nil
	}

	found, err := s.storefront.FetchByName(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("storefront lookup: %w", err)
	}
	for _, name := range missing {
		info := found[name]
		if info == nil {
			return nil, &domain.IntegrityError{Name: name, Reason: fmt.Sprintf("referenced by POS order %s but not found", b.linked[name].order.ID)}
		}
		if !info.IsDelivery {
			s.log.Warn("linked_order_not_delivery", map[string]any{"order": name, "pos_order": b.linked[name].order.ID})
			continue
		}
		online = append(online, *info)
	}
	return online, nil
}

// prefetchCustomers warms the customer cache for POS-only orders about to be
// built. Linked orders take their recipient from the storefront.
func (s *Service) prefetchCustomers(ctx context.Context, b buckets, tracked map[string]domain.Delivery) error {
	var ids []string
	collect := func(o pos.Order) {
		if _, ok := tracked[domain.NormalizeOrderNumber(o.ID)]; ok {
			return
		}
		for _, cu := range o.CustomerList() {
			if !cu.Complete() && cu.ID != "" {
				ids = append(ids, cu.ID)
			}
		}
	}
	for _, c := range b.posOnly {
		collect(c.order)
	}
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pos.GetCustomersByID(ctx, ids); err != nil {
		return fmt.Errorf("prefetch customers: %w", err)
	}
	return nil
}

// resultSet keeps the first occurrence per stored id, order number and online id.
type resultSet struct {
	items   []domain.Delivery
	ids     map[int64]bool
	numbers map[string]bool
	online  map[string]bool
}

func newResultSet() *resultSet {
	return &resultSet{ids: map[int64]bool{}, numbers: map[string]bool{}, online: map[string]bool{}}
}

func (r *resultSet) add(d domain.Delivery) {
	if d.Persisted() && r.ids[d.ID] {
		return
	}
	num := d.NormalizedOrderNumber()
	if num != "" && r.numbers[num] {
		return
	}
	if d.OnlineID != "" && r.online[d.OnlineID] {
		return
	}
	if d.Persisted() {
		r.ids[d.ID] = true
	}
	if num != "" {
		r.numbers[num] = true
	}
	if d.OnlineID != "" {
		r.online[d.OnlineID] = true
	}
	r.items = append(r.items, d)
}

func (r *resultSet) sorted() []domain.Delivery {
	out := r.items
	if out == nil {
		out = []domain.Delivery{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
