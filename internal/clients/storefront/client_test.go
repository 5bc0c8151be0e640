package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/config"
	"delivery-scheduler/internal/domain"
)

type fakeShifts struct {
	shifts []domain.Shift
	err    error
}

func (f *fakeShifts) FindShift(_ context.Context, date time.Time, t domain.ShiftTime) (domain.Shift, bool, error) {
	if f.err != nil {
		return domain.Shift{}, false, f.err
	}
	for _, s := range f.shifts {
		if s.Date.Format(time.DateOnly) == date.Format(time.DateOnly) && s.Time == t {
			return s, true, nil
		}
	}
	return domain.Shift{}, false, nil
}

func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func writePage(w http.ResponseWriter, orders []Order, next bool) {
	var resp ordersResponse
	for i, o := range orders {
		resp.Data.Orders.Edges = append(resp.Data.Orders.Edges, orderEdge{Cursor: "c" + o.Name + string(rune('a'+i)), Node: o})
	}
	resp.Data.Orders.PageInfo.HasNextPage = next
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func testClient(t *testing.T, h http.Handler, shifts ShiftFinder, lg *logger.Logger) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(config.StorefrontConfig{ShopURL: srv.URL, APIVersion: "2024-01", AccessToken: "tok"}, shifts, nil, lg)
}

func deliveryOrder(name, date, slot string) Order {
	return Order{
		ID:        "gid://shopify/Order/55" + name,
		Name:      "#" + name,
		CreatedAt: time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC),
		CustomAttributes: []Attribute{
			{Key: "Checkout-Method", Value: "Delivery"},
			{Key: "Delivery-Date", Value: date},
			{Key: "Delivery-Time", Value: slot},
		},
		ShippingAddress: &Address{FirstName: "Ada", LastName: "Lovelace", Address1: "1 Main St", City: "Springfield", Zip: "12345", Phone: "+15550100"},
	}
}

func TestResolveShiftMatches(t *testing.T) {
	am := domain.Shift{ID: 7, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Time: domain.ShiftAM}
	c := New(config.StorefrontConfig{}, &fakeShifts{shifts: []domain.Shift{am}}, nil, nil)

	res, err := c.ResolveShift(context.Background(), deliveryOrder("1042", "2024-03-01", "9:30 AM - 2:00 PM"))
	require.NoError(t, err)
	require.True(t, res.Resolved())
	assert.Equal(t, int64(7), res.Shift.ID)
}

func TestResolveShiftMissingShiftIsLogged(t *testing.T) {
	var buf bytes.Buffer
	c := New(config.StorefrontConfig{}, &fakeShifts{}, nil, logger.NewWithWriter("test", &buf))

	res, err := c.ResolveShift(context.Background(), deliveryOrder("1042", "2024-03-01", "9:30 AM - 2:00 PM"))
	require.NoError(t, err)
	assert.False(t, res.Resolved())
	assert.Equal(t, domain.ShiftNotFound, res.Status)
	assert.Contains(t, buf.String(), `"action":"shift_unresolved"`)
	assert.Contains(t, buf.String(), `"order":"1042"`)
}

func TestResolveShiftBadAttributes(t *testing.T) {
	pm := domain.Shift{ID: 8, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Time: domain.ShiftPM}
	c := New(config.StorefrontConfig{}, &fakeShifts{shifts: []domain.Shift{pm}}, nil, nil)

	tests := []struct {
		name  string
		order Order
		want  domain.ShiftStatus
	}{
		{"padded pm label", deliveryOrder("1", "2024-03-01", "03:00 PM - 07:00 PM"), domain.ShiftResolved},
		{"us date", deliveryOrder("2", "03/01/2024", "3:00 PM - 7:00 PM"), domain.ShiftResolved},
		{"unknown label", deliveryOrder("3", "2024-03-01", "noon-ish"), domain.ShiftNotFound},
		{"bad date", deliveryOrder("4", "first of march", "3:00 PM - 7:00 PM"), domain.ShiftNotFound},
		{"no attributes", Order{Name: "#5"}, domain.ShiftNotAttempted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.ResolveShift(context.Background(), tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
		})
	}
}

func TestResolveShiftStoreFailure(t *testing.T) {
	c := New(config.StorefrontConfig{}, &fakeShifts{err: assert.AnError}, nil, nil)
	_, err := c.ResolveShift(context.Background(), deliveryOrder("1", "2024-03-01", "9:30 AM - 2:00 PM"))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestResolveContactPhone(t *testing.T) {
	o := Order{
		ShippingAddress: &Address{Phone: " "},
		Customer:        &Customer{DefaultAddress: &Address{Phone: "+15550199"}},
	}
	p, ok := ResolveContactPhone(o)
	require.True(t, ok)
	assert.Equal(t, "+15550199", p)

	o.Customer.Phone = "+15550111"
	p, _ = ResolveContactPhone(o)
	assert.Equal(t, "+15550111", p)

	_, ok = ResolveContactPhone(Order{})
	assert.False(t, ok)
}

func TestSearchByTimeRangeFollowsCursor(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/admin/api/2024-01/graphql.json", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get("X-Shopify-Access-Token"))
		req := decodeRequest(t, r)
		assert.Equal(t, "updated_at:>='2024-03-01T00:00:00Z' AND updated_at:<='2024-03-01T23:59:59Z'", req.Variables["query"])

		if n == 1 {
			assert.Nil(t, req.Variables["after"])
			pickup := Order{ID: "gid://shopify/Order/1", Name: "#1000", CustomAttributes: []Attribute{{Key: "Checkout-Method", Value: "pickup"}}}
			writePage(w, []Order{deliveryOrder("1001", "2024-03-01", "9:30 AM - 2:00 PM"), pickup}, true)
			return
		}
		assert.NotEmpty(t, req.Variables["after"])
		writePage(w, []Order{deliveryOrder("1002", "2024-03-01", "3:00 PM - 7:00 PM")}, false)
	}), &fakeShifts{}, nil)

	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	got, err := c.SearchByTimeRange(context.Background(), day, day, true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	first := got[0]
	assert.Equal(t, "1001", first.Name)
	assert.Equal(t, "551001", first.OnlineID)
	assert.True(t, first.IsDelivery)
	assert.Equal(t, "+15550100", first.Phone)
	assert.Equal(t, "1 Main St", first.AddressLine1)
	assert.Equal(t, "12345", first.AddressPostalCode)
}

func TestSearchByTimeRangeGraphQLErrors(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"Throttled"}]}`))
	}), nil, nil)
	_, err := c.SearchByTimeRange(context.Background(), time.Now(), time.Now(), false)
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Throttled", te.Detail)
}

func TestSearchByTimeRangeRequiresToken(t *testing.T) {
	c := New(config.StorefrontConfig{ShopURL: "http://127.0.0.1:1", APIVersion: "2024-01"}, nil, nil, nil)
	_, err := c.SearchByTimeRange(context.Background(), time.Now(), time.Now(), true)
	assert.True(t, domain.IsConfiguration(err))
}

func TestFetchByNameCachesFoundOrders(t *testing.T) {
	var calls int32
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		req := decodeRequest(t, r)
		assert.Equal(t, "name:1042 OR name:9999", req.Variables["query"])
		writePage(w, []Order{deliveryOrder("1042", "2024-03-01", "9:30 AM - 2:00 PM")}, false)
	}), &fakeShifts{}, nil)

	got, err := c.FetchByName(context.Background(), []string{"#1042", "9999", "1042"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got["1042"])
	assert.Equal(t, "551042", got["1042"].OnlineID)
	assert.Nil(t, got["9999"])

	got, err = c.FetchByName(context.Background(), []string{"1042"})
	require.NoError(t, err)
	require.NotNil(t, got["1042"])
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
