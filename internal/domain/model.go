package domain

import (
	"strings"
	"time"
)

// DeliveryType is how an order is handed over at the door.
type DeliveryType int

const (
	DeliveryTypeWhiteGlove DeliveryType = 1
	DeliveryTypeCurbside   DeliveryType = 2
)

func (t DeliveryType) String() string {
	switch t {
	case DeliveryTypeWhiteGlove:
		return "WHITE_GLOVE"
	case DeliveryTypeCurbside:
		return "CURBSIDE"
	default:
		return "UNKNOWN"
	}
}

// shipping fee in minor units -> delivery type
var deliveryTypeByCost = map[int64]DeliveryType{
	7500:  DeliveryTypeCurbside,
	12500: DeliveryTypeWhiteGlove,
}

// DeliveryTypeForPrice maps a shipping line price (cents) to a delivery type.
// Unknown prices fall back to white glove.
func DeliveryTypeForPrice(cents int64) DeliveryType {
	if t, ok := deliveryTypeByCost[cents]; ok {
		return t
	}
	return DeliveryTypeWhiteGlove
}

type ShiftTime string

const (
	ShiftAM      ShiftTime = "AM"
	ShiftPM      ShiftTime = "PM"
	ShiftSpecial ShiftTime = "SP"
)

type Shift struct {
	ID             int64
	Date           time.Time // date only, midnight UTC
	Time           ShiftTime
	SlotsAvailable int
	SlotsFilled    int
	Comment        string
	Notes          string
}

func (s Shift) SlotsRemaining() int { return s.SlotsAvailable - s.SlotsFilled }

// Label renders the shift the way the scheduling sheets print it: "03/01 (Fri) AM".
func (s Shift) Label() string {
	return s.Date.Format("01/02 (Mon)") + " " + string(s.Time)
}

type Item struct {
	ID         int64
	DeliveryID int64
	Name       string
	Quantity   int
	PickedUp   bool
	Note       string
	POSID      string // line item id in the POS
}

// Delivery is the locally tracked fulfillment record for one order.
// ID == 0 means the record was built from a feed and is not stored yet.
type Delivery struct {
	ID                 int64
	OrderNumber        string
	OnlineID           string
	ShiftID            *int64
	Shift              *Shift
	RecipientFirstName string
	RecipientLastName  string
	RecipientPhone     string
	RecipientEmail     string
	AddressName        string
	AddressLine1       string
	AddressLine2       string
	AddressCity        string
	AddressPostalCode  string
	DeliveryType       DeliveryType
	Notes              string
	CreatedAt          time.Time
	Items              []Item
}

func (d Delivery) Persisted() bool { return d.ID != 0 }

// NormalizedOrderNumber is the key the store matches order numbers on.
func (d Delivery) NormalizedOrderNumber() string {
	return NormalizeOrderNumber(d.OrderNumber)
}

func NormalizeOrderNumber(n string) string {
	return strings.ToUpper(strings.TrimSpace(n))
}

func (d Delivery) RecipientName() string {
	switch {
	case d.RecipientFirstName == "":
		return d.RecipientLastName
	case d.RecipientLastName == "":
		return d.RecipientFirstName + " [LAST NAME UNKNOWN]"
	default:
		return d.RecipientFirstName + " " + d.RecipientLastName
	}
}

// SetShift attaches s (or clears the shift when s is nil).
func (d *Delivery) SetShift(s *Shift) {
	d.Shift = s
	if s == nil {
		d.ShiftID = nil
		return
	}
	id := s.ID
	d.ShiftID = &id
}

// HasItem reports whether a line item with the given POS id is already attached.
func (d Delivery) HasItem(posID string) bool {
	for _, it := range d.Items {
		if it.POSID == posID {
			return true
		}
	}
	return false
}
