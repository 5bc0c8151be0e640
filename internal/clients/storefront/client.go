package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"delivery-scheduler/internal/common/cache"
	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
)

const (
	pageSize       = 100
	maxErrorDetail = 512
	defaultTimeout = 30 * time.Second
)

const orderFields = `
fragment OrderFields on Order {
  id
  name
  createdAt
  note
  email
  customAttributes { key value }
  shippingAddress { firstName lastName company phone address1 address2 city zip }
  customer { firstName lastName phone email defaultAddress { phone } }
}`

const ordersQuery = `query Orders($first: Int!, $after: String, $query: String) {
  orders(first: $first, after: $after, query: $query, sortKey: UPDATED_AT) {
    edges { cursor node { ...OrderFields } }
    pageInfo { hasNextPage }
  }
}` + orderFields

// ShiftFinder looks up a scheduling slot by exact (date, time).
type ShiftFinder interface {
	FindShift(ctx context.Context, date time.Time, t domain.ShiftTime) (domain.Shift, bool, error)
}

// Client queries the online storefront's GraphQL admin API.
type Client struct {
	cfg    config.StorefrontConfig
	http   *http.Client
	shifts ShiftFinder
	names  cache.Cache[string, domain.DeliveryOrderInfo]
	log    *logger.Logger
}

// New builds a client. names caches FetchByName results; nil gives the client
// its own cache.
func New(cfg config.StorefrontConfig, shifts ShiftFinder, names cache.Cache[string, domain.DeliveryOrderInfo], lg *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if names == nil {
		names = cache.NewMap[string, domain.DeliveryOrderInfo]()
	}
	if lg == nil {
		lg = logger.Discard()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}, shifts: shifts, names: names, log: lg}
}

func (c *Client) endpoint() (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}
	u, err := url.JoinPath(c.cfg.ShopURL, "admin", "api", c.cfg.APIVersion, "graphql.json")
	if err != nil {
		return "", fmt.Errorf("storefront url: %w", err)
	}
	return u, nil
}

func (c *Client) queryOrders(ctx context.Context, endpoint string, vars map[string]any) (ordersConnection, error) {
	body, err := json.Marshal(graphQLRequest{Query: ordersQuery, Variables: vars})
	if err != nil {
		return ordersConnection{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ordersConnection{}, fmt.Errorf("storefront request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return ordersConnection{}, fmt.Errorf("storefront request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
		return ordersConnection{}, &domain.TransportError{Status: resp.StatusCode, URL: endpoint, Detail: strings.TrimSpace(string(detail))}
	}

	var out ordersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return ordersConnection{}, fmt.Errorf("storefront decode: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return ordersConnection{}, &domain.TransportError{Status: resp.StatusCode, URL: endpoint, Detail: strings.Join(msgs, "; ")}
	}
	return out.Data.Orders, nil
}
