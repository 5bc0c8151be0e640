package service

import (
	"context"
	"errors"

	"delivery-scheduler/internal/clients/pos"
	"delivery-scheduler/internal/domain"
)

// deliveryFromPOS builds an unsaved delivery for a POS-only order.
func (s *Service) deliveryFromPOS(ctx context.Context, o pos.Order, typ domain.DeliveryType) (domain.Delivery, error) {
	d := domain.Delivery{
		OrderNumber:  domain.NormalizeOrderNumber(o.ID),
		DeliveryType: typ,
		Notes:        o.Note,
		CreatedAt:    o.CreatedAt(),
	}
	cu, ok, err := s.customerFor(ctx, o)
	if err != nil {
		return domain.Delivery{}, err
	}
	if ok {
		applyCustomer(&d, cu)
	}
	addItems(&d, o)
	return d, nil
}

// customerFor resolves the single customer on o with full details. No
// customer is a data-quality warning; more than one is fatal.
func (s *Service) customerFor(ctx context.Context, o pos.Order) (pos.Customer, bool, error) {
	list := o.CustomerList()
	switch len(list) {
	case 0:
		s.log.Warn("customer_missing", map[string]any{"pos_order": o.ID})
		return pos.Customer{}, false, nil
	case 1:
	default:
		return pos.Customer{}, false, &domain.AmbiguousCustomerError{OrderID: o.ID, Count: len(list)}
	}

	cu := list[0]
	if cu.Complete() || cu.ID == "" {
		return cu, true, nil
	}
	full, err := s.pos.GetCustomer(ctx, cu.ID)
	if errors.Is(err, domain.ErrNotFound) {
		s.log.Warn("customer_not_found", map[string]any{"pos_order": o.ID, "customer": cu.ID})
		return cu, true, nil
	}
	if err != nil {
		return pos.Customer{}, false, err
	}
	return full, true, nil
}

func applyCustomer(d *domain.Delivery, cu pos.Customer) {
	d.RecipientFirstName = cu.FirstName
	d.RecipientLastName = cu.LastName
	if p, ok := cu.BestPhone(); ok {
		d.RecipientPhone = p
	}
	if e, ok := cu.BestEmail(); ok {
		d.RecipientEmail = e
	}
	if a, ok := cu.BestAddress(); ok {
		d.AddressLine1 = a.Address1
		d.AddressLine2 = a.Address2
		d.AddressCity = a.City
		d.AddressPostalCode = a.Zip
	}
}

// addItems attaches the order's goods: refunded lines and the delivery charge
// are skipped, as are lines already on d.
func addItems(d *domain.Delivery, o pos.Order) int {
	added := 0
	for _, li := range o.Items() {
		if li.Refunded || pos.IsDeliveryItem(li.Name) || (li.ID != "" && d.HasItem(li.ID)) {
			continue
		}
		d.Items = append(d.Items, domain.Item{Name: li.Name, Quantity: 1, POSID: li.ID})
		added++
	}
	return added
}

func deliveryFromStorefront(info domain.DeliveryOrderInfo, orderNumber string, typ domain.DeliveryType) domain.Delivery {
	first, last := info.RecipientNames()
	d := domain.Delivery{
		OrderNumber:        orderNumber,
		OnlineID:           info.OnlineID,
		RecipientFirstName: first,
		RecipientLastName:  last,
		RecipientPhone:     info.Phone,
		RecipientEmail:     info.Email,
		AddressName:        info.AddressName,
		AddressLine1:       info.AddressLine1,
		AddressLine2:       info.AddressLine2,
		AddressCity:        info.AddressCity,
		AddressPostalCode:  info.AddressPostalCode,
		DeliveryType:       typ,
		Notes:              info.Note,
		CreatedAt:          info.CreatedAt,
	}
	if info.Shift.Resolved() {
		d.SetShift(info.Shift.Shift)
	}
	return d
}
