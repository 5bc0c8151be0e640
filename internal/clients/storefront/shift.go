package storefront

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-scheduler/internal/domain"
)

const (
	deliveryDateKey = "Delivery-Date"
	deliveryTimeKey = "Delivery-Time"
)

// checkout time-picker labels -> shift
var timeToShift = map[string]domain.ShiftTime{
	"3:00 PM - 7:00 PM":   domain.ShiftPM,
	"03:00 PM - 07:00 PM": domain.ShiftPM,
	"9:30 AM - 2:00 PM":   domain.ShiftAM,
}

var dateLayouts = []string{
	time.DateOnly,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	time.RFC3339,
}

func parseDeliveryDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ResolveShift maps the Delivery-Date/Delivery-Time attributes onto a stored
// shift. Missing or bad attributes and unknown shifts are data-quality events:
// they are logged and reported in the resolution, never returned as errors.
// The error return is reserved for shift store failures.
func (c *Client) ResolveShift(ctx context.Context, o Order) (domain.ShiftResolution, error) {
	name := ShortName(o.Name)
	rawDate, hasDate := o.Attribute(deliveryDateKey)
	rawTime, hasTime := o.Attribute(deliveryTimeKey)
	if !hasDate || !hasTime {
		c.log.Warn("shift_missing", map[string]any{"order": name})
		return domain.ShiftResolution{Status: domain.ShiftNotAttempted, Reason: "delivery date/time attributes missing"}, nil
	}

	date, ok := parseDeliveryDate(rawDate)
	if !ok {
		return c.unresolved(name, fmt.Sprintf("unparseable delivery date %q", rawDate)), nil
	}
	slot, ok := timeToShift[strings.TrimSpace(rawTime)]
	if !ok {
		return c.unresolved(name, fmt.Sprintf("unknown delivery time %q", rawTime)), nil
	}
	if c.shifts == nil {
		return c.unresolved(name, "no shift store configured"), nil
	}

	shift, found, err := c.shifts.FindShift(ctx, date, slot)
	if err != nil {
		return domain.ShiftResolution{}, fmt.Errorf("find shift %s %s: %w", date.Format(time.DateOnly), slot, err)
	}
	if !found {
		return c.unresolved(name, fmt.Sprintf("no shift %s %s", date.Format(time.DateOnly), slot)), nil
	}
	return domain.ShiftResolution{Status: domain.ShiftResolved, Shift: &shift}, nil
}

func (c *Client) unresolved(order, reason string) domain.ShiftResolution {
	c.log.Warn("shift_unresolved", map[string]any{"order": order, "reason": reason})
	return domain.ShiftResolution{Status: domain.ShiftNotFound, Reason: reason}
}
