package pos

import "time"

// Elements is the POS API's list envelope: {"elements": [...]}.
type Elements[T any] struct {
	Elements []T `json:"elements"`
}

type Order struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Note        string              `json:"note"`
	State       string              `json:"state"`
	Total       int64               `json:"total"`
	CreatedTime int64               `json:"createdTime"` // ms epoch
	LineItems   *Elements[LineItem] `json:"lineItems,omitempty"`
	Customers   *Elements[Customer] `json:"customers,omitempty"`
}

func (o Order) CreatedAt() time.Time { return time.UnixMilli(o.CreatedTime) }

func (o Order) Items() []LineItem {
	if o.LineItems == nil {
		return nil
	}
	return o.LineItems.Elements
}

func (o Order) CustomerList() []Customer {
	if o.Customers == nil {
		return nil
	}
	return o.Customers.Elements
}

type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // minor units
	Refunded bool   `json:"refunded"`
}

type Customer struct {
	ID             string                  `json:"id"`
	Href           string                  `json:"href"`
	FirstName      string                  `json:"firstName"`
	LastName       string                  `json:"lastName"`
	Addresses      *Elements[Address]      `json:"addresses,omitempty"`
	EmailAddresses *Elements[EmailAddress] `json:"emailAddresses,omitempty"`
	PhoneNumbers   *Elements[PhoneNumber]  `json:"phoneNumbers,omitempty"`
}

// Complete reports whether the expanded sub-resources came back with the
// customer. Order listings only carry id/name.
func (c Customer) Complete() bool { return c.Addresses != nil }

type Address struct {
	ID       string `json:"id"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	Address3 string `json:"address3"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"emailAddress"`
}

type PhoneNumber struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phoneNumber"`
}

// BestAddress returns the first address with a street line, else the first one.
func (c Customer) BestAddress() (Address, bool) {
	if c.Addresses == nil {
		return Address{}, false
	}
	return firstOr(c.Addresses.Elements, func(a Address) bool { return a.Address1 != "" })
}

func (c Customer) BestPhone() (string, bool) {
	if c.PhoneNumbers == nil {
		return "", false
	}
	p, ok := firstOr(c.PhoneNumbers.Elements, func(p PhoneNumber) bool { return p.PhoneNumber != "" })
	return p.PhoneNumber, ok
}

func (c Customer) BestEmail() (string, bool) {
	if c.EmailAddresses == nil {
		return "", false
	}
	e, ok := firstOr(c.EmailAddresses.Elements, func(e EmailAddress) bool { return e.EmailAddress != "" })
	return e.EmailAddress, ok
}

// firstOr returns the first element matching pred, falling back to the first
// element. ok is false only for an empty slice.
func firstOr[T any](xs []T, pred func(T) bool) (T, bool) {
	var zero T
	if len(xs) == 0 {
		return zero, false
	}
	for _, x := range xs {
		if pred(x) {
			return x, true
		}
	}
	return xs[0], true
}
