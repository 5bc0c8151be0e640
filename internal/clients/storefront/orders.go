package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-scheduler/internal/domain"
)

const checkoutMethodKey = "Checkout-Method"

func updatedRangeQuery(start, end time.Time) string {
	from, to := domain.DayBounds(start, end)
	return fmt.Sprintf("updated_at:>='%s' AND updated_at:<='%s'",
		from.Format(time.RFC3339), to.Format(time.RFC3339))
}

// IsDeliveryOrder reports whether checkout was marked as delivery.
func IsDeliveryOrder(o Order) bool {
	v, ok := o.Attribute(checkoutMethodKey)
	return ok && strings.EqualFold(strings.TrimSpace(v), "delivery")
}

// ResolveContactPhone picks the shipping phone, then the customer's, then the
// customer's default address phone.
func ResolveContactPhone(o Order) (string, bool) {
	candidates := make([]string, 0, 3)
	if o.ShippingAddress != nil {
		candidates = append(candidates, o.ShippingAddress.Phone)
	}
	if o.Customer != nil {
		candidates = append(candidates, o.Customer.Phone)
		if o.Customer.DefaultAddress != nil {
			candidates = append(candidates, o.Customer.DefaultAddress.Phone)
		}
	}
	for _, p := range candidates {
		if p = strings.TrimSpace(p); p != "" {
			return p, true
		}
	}
	return "", false
}

// SearchByTimeRange walks the orders updated inside the day window, following
// the cursor until the last page.
func (c *Client) SearchByTimeRange(ctx context.Context, start, end time.Time, deliveryOnly bool) ([]domain.DeliveryOrderInfo, error) {
	endpoint, err := c.endpoint()
	if err != nil {
		return nil, err
	}
	vars := map[string]any{"first": pageSize, "query": updatedRangeQuery(start, end)}

	var out []domain.DeliveryOrderInfo
	for {
		conn, err := c.queryOrders(ctx, endpoint, vars)
		if err != nil {
			return nil, fmt.Errorf("search storefront orders: %w", err)
		}
		for _, e := range conn.Edges {
			if deliveryOnly && !IsDeliveryOrder(e.Node) {
				continue
			}
			info, err := c.decode(ctx, e.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, info)
		}
		if !conn.PageInfo.HasNextPage || len(conn.Edges) == 0 {
			break
		}
		vars["after"] = conn.Edges[len(conn.Edges)-1].Cursor
	}
	return out, nil
}

// FetchByName resolves orders by name. Names already cached are answered
// without a request; names the storefront does not know map to nil.
func (c *Client) FetchByName(ctx context.Context, names []string) (map[string]*domain.DeliveryOrderInfo, error) {
	var unknown []string
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		n = ShortName(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		if _, ok := c.names.Get(n); !ok {
			unknown = append(unknown, n)
		}
	}

	for len(unknown) > 0 {
		batch := unknown
		if len(batch) > pageSize {
			batch = batch[:pageSize]
		}
		unknown = unknown[len(batch):]
		if err := c.fetchBatch(ctx, batch); err != nil {
			return nil, err
		}
	}

	out := make(map[string]*domain.DeliveryOrderInfo, len(seen))
	for n := range seen {
		if info, ok := c.names.Get(n); ok {
			info := info
			out[n] = &info
		} else {
			out[n] = nil
		}
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, names []string) error {
	endpoint, err := c.endpoint()
	if err != nil {
		return err
	}
	terms := make([]string, len(names))
	for i, n := range names {
		terms[i] = "name:" + n
	}
	conn, err := c.queryOrders(ctx, endpoint, map[string]any{
		"first": len(names),
		"query": strings.Join(terms, " OR "),
	})
	if err != nil {
		return fmt.Errorf("fetch storefront orders by name: %w", err)
	}
	for _, e := range conn.Edges {
		info, err := c.decode(ctx, e.Node)
		if err != nil {
			return err
		}
		c.names.Set(info.Name, info)
	}
	return nil
}

func (c *Client) decode(ctx context.Context, o Order) (domain.DeliveryOrderInfo, error) {
	shift, err := c.ResolveShift(ctx, o)
	if err != nil {
		return domain.DeliveryOrderInfo{}, err
	}
	info := domain.DeliveryOrderInfo{
		Name:       ShortName(o.Name),
		OnlineID:   o.OnlineID(),
		CreatedAt:  o.CreatedAt,
		IsDelivery: IsDeliveryOrder(o),
		Shift:      shift,
		Email:      o.Email,
		Note:       o.Note,
	}
	info.Phone, _ = ResolveContactPhone(o)
	if a := o.ShippingAddress; a != nil {
		info.FirstName = a.FirstName
		info.LastName = a.LastName
		info.AddressName = a.Company
		info.AddressLine1 = a.Address1
		info.AddressLine2 = a.Address2
		info.AddressCity = a.City
		info.AddressPostalCode = a.Zip
	}
	if cu := o.Customer; cu != nil {
		info.CustomerFirstName = cu.FirstName
		info.CustomerLastName = cu.LastName
		if info.Email == "" {
			info.Email = cu.Email
		}
	}
	return info, nil
}
