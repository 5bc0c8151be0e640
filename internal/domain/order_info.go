package domain

import "time"

type ShiftStatus int

const (
	ShiftNotAttempted ShiftStatus = iota // order carries no delivery date/time attributes
	ShiftResolved
	ShiftNotFound // attributes present but unparseable, or no matching shift
)

// ShiftResolution is the outcome of mapping a storefront order onto a Shift.
type ShiftResolution struct {
	Status ShiftStatus
	Shift  *Shift
	Reason string
}

func (r ShiftResolution) Resolved() bool { return r.Status == ShiftResolved && r.Shift != nil }

// DeliveryOrderInfo is a storefront order decoded into what reconciliation needs.
type DeliveryOrderInfo struct {
	Name              string // without the leading '#'
	OnlineID          string
	CreatedAt         time.Time
	IsDelivery        bool
	Shift             ShiftResolution
	Phone             string
	Email             string
	FirstName         string // shipping recipient
	LastName          string
	CustomerFirstName string
	CustomerLastName  string
	AddressName       string
	AddressLine1      string
	AddressLine2      string
	AddressCity       string
	AddressPostalCode string
	Note              string
}

// RecipientNames prefers the shipping recipient and falls back to the customer.
func (o DeliveryOrderInfo) RecipientNames() (first, last string) {
	if o.FirstName != "" || o.LastName != "" {
		return o.FirstName, o.LastName
	}
	return o.CustomerFirstName, o.CustomerLastName
}
