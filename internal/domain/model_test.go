package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryTypeForPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  DeliveryType
	}{
		{7500, DeliveryTypeCurbside},
		{12500, DeliveryTypeWhiteGlove},
		{9900, DeliveryTypeWhiteGlove},
		{0, DeliveryTypeWhiteGlove},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.cents), func(t *testing.T) {
			assert.Equal(t, tt.want, DeliveryTypeForPrice(tt.cents))
		})
	}
}

func TestDeliveryTypeString(t *testing.T) {
	assert.Equal(t, "WHITE_GLOVE", DeliveryTypeWhiteGlove.String())
	assert.Equal(t, "CURBSIDE", DeliveryTypeCurbside.String())
	assert.Equal(t, "UNKNOWN", DeliveryType(0).String())
}

func TestRecipientName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", Delivery{RecipientFirstName: "Ada", RecipientLastName: "Lovelace"}.RecipientName())
	assert.Equal(t, "Lovelace", Delivery{RecipientLastName: "Lovelace"}.RecipientName())
	assert.Equal(t, "Ada [LAST NAME UNKNOWN]", Delivery{RecipientFirstName: "Ada"}.RecipientName())
}

func TestSetShift(t *testing.T) {
	var d Delivery
	s := &Shift{ID: 7, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Time: ShiftAM}
	d.SetShift(s)
	if assert.NotNil(t, d.ShiftID) {
		assert.Equal(t, int64(7), *d.ShiftID)
	}
	assert.Equal(t, "03/01 (Fri) AM", d.Shift.Label())

	d.SetShift(nil)
	assert.Nil(t, d.ShiftID)
	assert.Nil(t, d.Shift)
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", &NotFoundError{Kind: "order", ID: "ABC"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, IsTransport(err))
	assert.EqualError(t, err, "lookup: order ABC not found")
}

func TestErrorPredicates(t *testing.T) {
	assert.True(t, IsConfiguration(fmt.Errorf("x: %w", &ConfigurationError{Param: "pos.api_key"})))
	assert.True(t, IsIntegrity(&IntegrityError{Name: "2001", Reason: "missing"}))
	assert.True(t, IsIntegrity(&AmbiguousCustomerError{OrderID: "A", Count: 2}))
	assert.True(t, IsTransport(&TransportError{Status: 502}))
	assert.False(t, IsConfiguration(errors.New("other")))
}
