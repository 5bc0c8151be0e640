package storefront

import (
	"path"
	"strings"
	"time"
)

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Phone     string `json:"phone"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type Customer struct {
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	DefaultAddress *Address `json:"defaultAddress"`
}

// Order is the node returned by the orders query.
type Order struct {
	ID               string      `json:"id"` // gid://shopify/Order/<n>
	Name             string      `json:"name"`
	CreatedAt        time.Time   `json:"createdAt"`
	Note             string      `json:"note"`
	Email            string      `json:"email"`
	CustomAttributes []Attribute `json:"customAttributes"`
	ShippingAddress  *Address    `json:"shippingAddress"`
	Customer         *Customer   `json:"customer"`
}

// Attribute returns the value of a custom attribute, matched case-insensitively on key.
func (o Order) Attribute(key string) (string, bool) {
	for _, a := range o.CustomAttributes {
		if strings.EqualFold(a.Key, key) {
			return a.Value, true
		}
	}
	return "", false
}

// ShortName strips the leading '#' the storefront puts on order names.
func ShortName(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

// OnlineID is the numeric tail of the order's global id.
func (o Order) OnlineID() string {
	if o.ID == "" {
		return ""
	}
	return path.Base(o.ID)
}

type pageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type orderEdge struct {
	Cursor string `json:"cursor"`
	Node   Order  `json:"node"`
}

type ordersConnection struct {
	Edges    []orderEdge `json:"edges"`
	PageInfo pageInfo    `json:"pageInfo"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type ordersResponse struct {
	Data struct {
		Orders ordersConnection `json:"orders"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
