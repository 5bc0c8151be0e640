package pos

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"delivery-scheduler/internal/domain"
)

// GetCustomer returns the expanded customer record, from cache when possible.
func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	if cu, ok := c.customers.Get(id); ok {
		return cu, nil
	}
	endpoint, err := c.merchantURL("customers", id)
	if err != nil {
		return Customer{}, err
	}
	params := url.Values{}
	params.Set("expand", customerExpand)

	var cu Customer
	if err := c.get(ctx, endpoint, params, &cu); err != nil {
		if isStatus(err, 404) {
			return Customer{}, &domain.NotFoundError{Kind: "customer", ID: id}
		}
		return Customer{}, err
	}
	c.customers.Set(id, cu)
	return cu, nil
}

// GetCustomersByID loads many customers, customerBatchSize ids per request,
// and caches every returned record. Ids already cached are not requested again.
func (c *Client) GetCustomersByID(ctx context.Context, ids []string) (map[string]Customer, error) {
	out := make(map[string]Customer, len(ids))
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if cu, ok := c.customers.Get(id); ok {
			out[id] = cu
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	endpoint, err := c.merchantURL("customers")
	if err != nil {
		return nil, err
	}
	for len(missing) > 0 {
		batch := missing
		if len(batch) > customerBatchSize {
			batch = batch[:customerBatchSize]
		}
		missing = missing[len(batch):]

		params := url.Values{}
		params.Set("filter", "id in ('"+strings.Join(batch, "','")+"')")
		params.Set("expand", customerExpand)
		params.Set("limit", strconv.Itoa(len(batch)))

		var page Elements[Customer]
		if err := c.get(ctx, endpoint, params, &page); err != nil {
			return nil, err
		}
		for _, cu := range page.Elements {
			c.customers.Set(cu.ID, cu)
			out[cu.ID] = cu
		}
	}
	return out, nil
}
