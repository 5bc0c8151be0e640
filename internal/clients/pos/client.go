package pos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"delivery-scheduler/internal/common/cache"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
)

const (
	chunkSize      = 1000
	orderExpand    = "lineItems,customers"
	customerExpand = "addresses,emailAddresses,phoneNumbers"
	maxErrorDetail = 512
	defaultTimeout = 30 * time.Second

	// Keeps the customer id filter well under common URL length limits.
	customerBatchSize = 100
)

// Client talks to the merchant's POS REST API.
type Client struct {
	cfg       config.POSConfig
	http      *http.Client
	customers cache.Cache[string, Customer]
}

// New builds a client. customers is the detail cache; pass nil for a fresh
// per-client cache.
func New(cfg config.POSConfig, customers cache.Cache[string, Customer]) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if customers == nil {
		customers = cache.NewMap[string, Customer]()
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}, customers: customers}
}

func (c *Client) merchantURL(segments ...string) (string, error) {
	if err := c.cfg.Validate(); err != nil {
		return "", err
	}
	parts := append([]string{"merchants", c.cfg.MerchantID}, segments...)
	u, err := url.JoinPath(c.cfg.IntegrationAPI, parts...)
	if err != nil {
		return "", fmt.Errorf("pos url: %w", err)
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("pos request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pos request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
		return &domain.TransportError{Status: resp.StatusCode, URL: endpoint, Detail: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("pos decode %s: %w", endpoint, err)
	}
	return nil
}

func isStatus(err error, code int) bool {
	var te *domain.TransportError
	return errors.As(err, &te) && te.Status == code
}
