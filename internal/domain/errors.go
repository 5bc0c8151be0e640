package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError so callers can branch with errors.Is.
var ErrNotFound = errors.New("not found")

// ConfigurationError is returned before any network call when a required
// connection parameter is absent.
type ConfigurationError struct {
	Param string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s not set", e.Param)
}

// NotFoundError reports a 404 on a single-entity lookup (order, customer).
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// TransportError is any other non-2xx upstream response. It is not retried locally.
type TransportError struct {
	Status int
	URL    string
	Detail string
}

func (e *TransportError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("upstream %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("upstream %s: status %d: %s", e.URL, e.Status, e.Detail)
}

// IntegrityError aborts a reconciliation run: the POS references a storefront
// order that cannot be resolved.
type IntegrityError struct {
	Name   string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity: storefront order %q: %s", e.Name, e.Reason)
}

// AmbiguousCustomerError is raised when a POS order carries more than one customer.
type AmbiguousCustomerError struct {
	OrderID string
	Count   int
}

func (e *AmbiguousCustomerError) Error() string {
	return fmt.Sprintf("order %s: unexpected number (%d) of customers", e.OrderID, e.Count)
}

func IsConfiguration(err error) bool {
	var c *ConfigurationError
	return errors.As(err, &c)
}

func IsIntegrity(err error) bool {
	var i *IntegrityError
	var a *AmbiguousCustomerError
	return errors.As(err, &i) || errors.As(err, &a)
}

func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}
