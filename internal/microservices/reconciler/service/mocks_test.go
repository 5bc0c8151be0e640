package service

import (
	"context"
	"time"

	"delivery-scheduler/internal/clients/pos"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/microservices/reconciler/repository"
)

type fakePOS struct {
	orders     []pos.Order
	byNumber   map[string]pos.Order
	customers  map[string]pos.Customer
	err        error
	batchCalls [][]string
	getCalls   []string
}

func (f *fakePOS) SearchByDates(context.Context, time.Time, time.Time) ([]pos.Order, error) {
	return f.orders, f.err
}

func (f *fakePOS) GetOrder(_ context.Context, number string) (pos.Order, error) {
	if o, ok := f.byNumber[number]; ok {
		return o, nil
	}
	return pos.Order{}, &domain.NotFoundError{Kind: "order", ID: number}
}

func (f *fakePOS) GetCustomer(_ context.Context, id string) (pos.Customer, error) {
	f.getCalls = append(f.getCalls, id)
	if cu, ok := f.customers[id]; ok {
		return cu, nil
	}
	return pos.Customer{}, &domain.NotFoundError{Kind: "customer", ID: id}
}

func (f *fakePOS) GetCustomersByID(_ context.Context, ids []string) (map[string]pos.Customer, error) {
	f.batchCalls = append(f.batchCalls, ids)
	out := map[string]pos.Customer{}
	for _, id := range ids {
		if cu, ok := f.customers[id]; ok {
			out[id] = cu
		}
	}
	return out, nil
}

type fakeStorefront struct {
	orders     []domain.DeliveryOrderInfo
	byName     map[string]*domain.DeliveryOrderInfo
	fetchCalls [][]string
}

func (f *fakeStorefront) SearchByTimeRange(context.Context, time.Time, time.Time, bool) ([]domain.DeliveryOrderInfo, error) {
	return f.orders, nil
}

func (f *fakeStorefront) FetchByName(_ context.Context, names []string) (map[string]*domain.DeliveryOrderInfo, error) {
	f.fetchCalls = append(f.fetchCalls, names)
	out := map[string]*domain.DeliveryOrderInfo{}
	for _, n := range names {
		out[n] = f.byName[n]
	}
	return out, nil
}

type fakeStore struct {
	stored  []domain.Delivery
	dup     map[string]bool // order numbers rejected on insert
	queries int
	created []domain.Delivery
	updated []domain.Delivery
	nextID  int64
}

func (f *fakeStore) FindByOrderNumbers(_ context.Context, numbers []string) (map[string]domain.Delivery, error) {
	f.queries++
	want := map[string]bool{}
	for _, n := range numbers {
		want[domain.NormalizeOrderNumber(n)] = true
	}
	out := map[string]domain.Delivery{}
	for _, d := range f.stored {
		if want[d.NormalizedOrderNumber()] {
			out[d.NormalizedOrderNumber()] = d
		}
	}
	return out, nil
}

func (f *fakeStore) FindByOnlineIDs(_ context.Context, ids []string) (map[string]domain.Delivery, error) {
	f.queries++
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := map[string]domain.Delivery{}
	for _, d := range f.stored {
		if d.OnlineID != "" && want[d.OnlineID] {
			out[d.OnlineID] = d
		}
	}
	return out, nil
}

func (f *fakeStore) FindByOrderNumber(ctx context.Context, number string) (domain.Delivery, bool, error) {
	m, _ := f.FindByOrderNumbers(ctx, []string{number})
	d, ok := m[domain.NormalizeOrderNumber(number)]
	return d, ok, nil
}

func (f *fakeStore) ListWithOrderNumbers(context.Context) ([]domain.Delivery, error) {
	var out []domain.Delivery
	for _, d := range f.stored {
		if d.OrderNumber != "" {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, d *domain.Delivery) error {
	if f.dup[d.OrderNumber] {
		return repository.ErrDuplicate
	}
	f.nextID++
	d.ID = 1000 + f.nextID
	f.created = append(f.created, *d)
	return nil
}

func (f *fakeStore) Update(_ context.Context, d *domain.Delivery) error {
	f.updated = append(f.updated, *d)
	return nil
}

type fakeShifts struct {
	shifts  []domain.Shift
	created int
}

func (f *fakeShifts) ListByDate(_ context.Context, date time.Time) ([]domain.Shift, error) {
	var out []domain.Shift
	for _, s := range f.shifts {
		if s.Date.Format(time.DateOnly) == date.Format(time.DateOnly) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShifts) CreateShiftTemplate(_ context.Context, start, end time.Time, _ int) (int, error) {
	f.created = int(end.Sub(start).Hours()/24) * 2
	return f.created, nil
}
