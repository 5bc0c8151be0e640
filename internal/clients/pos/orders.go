package pos

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery-scheduler/internal/domain"
)

// createdTimeFilters renders the inclusive ms-epoch bounds. Seconds are
// truncated before scaling, matching what the dashboard exports use.
func createdTimeFilters(start, end time.Time) []string {
	from, to := domain.DayBounds(start, end)
	return []string{
		"createdTime>=" + strconv.FormatInt(from.Unix()*1000, 10),
		"createdTime<=" + strconv.FormatInt(to.Unix()*1000, 10),
	}
}

// SearchByDates pages through every order created between the start of start's
// day and the end of end's day.
func (c *Client) SearchByDates(ctx context.Context, start, end time.Time) ([]Order, error) {
	endpoint, err := c.merchantURL("orders")
	if err != nil {
		return nil, err
	}

	var all []Order
	for offset := 0; ; offset += chunkSize {
		params := url.Values{}
		params.Set("expand", orderExpand)
		params["filter"] = createdTimeFilters(start, end)
		params.Set("limit", strconv.Itoa(chunkSize))
		if offset > 0 {
			params.Set("offset", strconv.Itoa(offset))
		}

		var page Elements[Order]
		if err := c.get(ctx, endpoint, params, &page); err != nil {
			return nil, fmt.Errorf("search orders (offset %d): %w", offset, err)
		}
		if len(page.Elements) == 0 {
			break
		}
		all = append(all, page.Elements...)
		if len(page.Elements) < chunkSize {
			break
		}
	}
	return all, nil
}

// GetOrder fetches one order by number. A 404 becomes a NotFoundError.
func (c *Client) GetOrder(ctx context.Context, number string) (Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	endpoint, err := c.merchantURL("orders", number)
	if err != nil {
		return Order{}, err
	}
	params := url.Values{}
	params.Set("expand", orderExpand)

	var o Order
	if err := c.get(ctx, endpoint, params, &o); err != nil {
		if isStatus(err, 404) {
			return Order{}, &domain.NotFoundError{Kind: "order", ID: number}
		}
		return Order{}, err
	}
	return o, nil
}
