package service

import (
	"errors"
	"strings"
	"time"

	"delivery-scheduler/internal/domain"
)

var ErrNoAddress = errors.New("no address associated with order")

const defaultCountry = "United States"

type window struct {
	fromHour, fromMin int
	toHour, toMin     int
}

var shiftWindows = map[domain.ShiftTime]window{
	domain.ShiftAM: {9, 30, 14, 0},
	domain.ShiftPM: {15, 0, 19, 0},
}

// BuildTask renders the dispatch task for one delivery. The completion window
// comes from the delivery's shift, in loc.
func BuildTask(d domain.Delivery, loc *time.Location) (domain.DispatchTask, error) {
	if strings.TrimSpace(d.AddressLine1) == "" {
		return domain.DispatchTask{}, ErrNoAddress
	}
	if loc == nil {
		loc = time.Local
	}

	t := domain.DispatchTask{
		Destination: domain.TaskDestination{Address: domain.TaskAddress{
			Name:       d.AddressName,
			Street:     d.AddressLine1,
			Apartment:  d.AddressLine2,
			City:       d.AddressCity,
			PostalCode: d.AddressPostalCode,
			Country:    defaultCountry,
			Unparsed:   joinNonEmpty(", ", d.AddressLine1, d.AddressLine2, d.AddressCity, d.AddressPostalCode),
		}},
		Recipients: []domain.TaskRecipient{{Name: d.RecipientName(), Phone: d.RecipientPhone}},
		Notes:      d.Notes,
		Metadata: []domain.TaskMetadata{
			{Name: "order_number", Type: "string", Value: d.OrderNumber},
			{Name: "delivery_type", Type: "string", Value: d.DeliveryType.String()},
		},
	}
	if d.OnlineID != "" {
		t.Metadata = append(t.Metadata, domain.TaskMetadata{Name: "online_id", Type: "string", Value: d.OnlineID})
	}

	if d.Shift != nil {
		if w, ok := shiftWindows[d.Shift.Time]; ok {
			y, m, day := d.Shift.Date.Date()
			t.CompleteAfter = time.Date(y, m, day, w.fromHour, w.fromMin, 0, 0, loc).UnixMilli()
			t.CompleteBefore = time.Date(y, m, day, w.toHour, w.toMin, 0, 0, loc).UnixMilli()
		}
	}
	return t, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
