package domain

import "time"

type DeliveryItemView struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	PickedUp bool   `json:"picked_up"`
}

// DeliveryView is the JSON shape of a reconciled delivery.
type DeliveryView struct {
	ID                int64              `json:"id,omitempty"`
	Tracked           bool               `json:"tracked"`
	OrderNumber       string             `json:"order_number,omitempty"`
	OnlineID          string             `json:"online_id,omitempty"`
	Shift             string             `json:"delivery_shift,omitempty"`
	ShiftID           *int64             `json:"delivery_shift_id,omitempty"`
	RecipientName     string             `json:"recipient_name"`
	RecipientFirst    string             `json:"recipient_first_name,omitempty"`
	RecipientLast     string             `json:"recipient_last_name,omitempty"`
	RecipientPhone    string             `json:"recipient_phone_number,omitempty"`
	RecipientEmail    string             `json:"recipient_email,omitempty"`
	AddressName       string             `json:"address_name,omitempty"`
	AddressLine1      string             `json:"address_line_1,omitempty"`
	AddressLine2      string             `json:"address_line_2,omitempty"`
	AddressCity       string             `json:"address_city,omitempty"`
	AddressPostalCode string             `json:"address_postal_code,omitempty"`
	DeliveryType      string             `json:"delivery_type"`
	Notes             string             `json:"notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	Items             []DeliveryItemView `json:"items,omitempty"`
}

func NewDeliveryView(d Delivery) DeliveryView {
	v := DeliveryView{
		ID:                d.ID,
		Tracked:           d.Persisted(),
		OrderNumber:       d.OrderNumber,
		OnlineID:          d.OnlineID,
		ShiftID:           d.ShiftID,
		RecipientName:     d.RecipientName(),
		RecipientFirst:    d.RecipientFirstName,
		RecipientLast:     d.RecipientLastName,
		RecipientPhone:    d.RecipientPhone,
		RecipientEmail:    d.RecipientEmail,
		AddressName:       d.AddressName,
		AddressLine1:      d.AddressLine1,
		AddressLine2:      d.AddressLine2,
		AddressCity:       d.AddressCity,
		AddressPostalCode: d.AddressPostalCode,
		DeliveryType:      d.DeliveryType.String(),
		Notes:             d.Notes,
		CreatedAt:         d.CreatedAt,
	}
	if d.Shift != nil {
		v.Shift = d.Shift.Label()
	}
	for _, it := range d.Items {
		v.Items = append(v.Items, DeliveryItemView{Name: it.Name, Quantity: it.Quantity, PickedUp: it.PickedUp})
	}
	return v
}

type ShiftView struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Label          string `json:"label"`
	SlotsAvailable int    `json:"slots_available"`
	SlotsRemaining int    `json:"slots_remaining"`
}

func NewShiftView(s Shift) ShiftView {
	return ShiftView{
		ID:             s.ID,
		Date:           s.Date.Format(time.DateOnly),
		Time:           string(s.Time),
		Label:          s.Label(),
		SlotsAvailable: s.SlotsAvailable,
		SlotsRemaining: s.SlotsRemaining(),
	}
}
