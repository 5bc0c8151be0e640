package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delivery-scheduler/internal/connections/rabbitmq"
	"delivery-scheduler/internal/domain"
)

type published struct {
	exchange, key string
	msg           rabbitmq.Message
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, exchange, key string, m rabbitmq.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, m})
	return nil
}

func delivery(id int64, number string, slot domain.ShiftTime) domain.Delivery {
	d := domain.Delivery{
		ID: id, OrderNumber: number, OnlineID: "55" + number,
		RecipientFirstName: "Ada", RecipientLastName: "Lovelace", RecipientPhone: "+15550100",
		AddressLine1: "1 Main St", AddressLine2: "Apt 2", AddressCity: "Springfield", AddressPostalCode: "12345",
		DeliveryType: domain.DeliveryTypeCurbside, Notes: "ring twice",
	}
	if slot != "" {
		d.SetShift(&domain.Shift{ID: 3, Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Time: slot})
	}
	return d
}

func TestBuildTaskWindows(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)

	task, err := BuildTask(delivery(1, "P1", domain.ShiftAM), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, loc).UnixMilli(), task.CompleteAfter)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 0, 0, 0, loc).UnixMilli(), task.CompleteBefore)

	task, err = BuildTask(delivery(1, "P1", domain.ShiftPM), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 15, 0, 0, 0, loc).UnixMilli(), task.CompleteAfter)
	assert.Equal(t, time.Date(2024, 3, 1, 19, 0, 0, 0, loc).UnixMilli(), task.CompleteBefore)

	task, err = BuildTask(delivery(1, "P1", ""), loc)
	require.NoError(t, err)
	assert.Zero(t, task.CompleteAfter)
	assert.Zero(t, task.CompleteBefore)
}

func TestBuildTaskPayload(t *testing.T) {
	task, err := BuildTask(delivery(1, "P1", domain.ShiftAM), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "1 Main St, Apt 2, Springfield, 12345", task.Destination.Address.Unparsed)
	assert.Equal(t, "Springfield", task.Destination.Address.City)
	require.Len(t, task.Recipients, 1)
	assert.Equal(t, "Ada Lovelace", task.Recipients[0].Name)
	assert.Equal(t, "ring twice", task.Notes)
	assert.Contains(t, task.Metadata, domain.TaskMetadata{Name: "order_number", Type: "string", Value: "P1"})
	assert.Contains(t, task.Metadata, domain.TaskMetadata{Name: "delivery_type", Type: "string", Value: "CURBSIDE"})
}

func TestBuildTaskRequiresAddress(t *testing.T) {
	d := delivery(1, "P1", domain.ShiftAM)
	d.AddressLine1 = " "
	_, err := BuildTask(d, time.UTC)
	assert.ErrorIs(t, err, ErrNoAddress)
}

func TestPublish(t *testing.T) {
	pub := &fakePublisher{}
	p := New(pub, "dispatch_tasks", time.UTC, nil)

	noAddr := delivery(2, "P2", domain.ShiftPM)
	noAddr.AddressLine1 = ""
	rep, err := p.Publish(context.Background(), []domain.Delivery{
		delivery(1, "P1", domain.ShiftAM),
		noAddr,
		delivery(0, "SHOP-1001", domain.ShiftAM),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, rep.Published)
	assert.Equal(t, map[string]string{"P2": ErrNoAddress.Error(), "SHOP-1001": "not saved"}, rep.Skipped)

	require.Len(t, pub.sent, 1)
	sent := pub.sent[0]
	assert.Equal(t, "dispatch_tasks", sent.exchange)
	assert.Equal(t, "task.curbside", sent.key)
	assert.True(t, sent.msg.Persistent)
	_, err = uuid.Parse(sent.msg.ID)
	assert.NoError(t, err)

	var task domain.DispatchTask
	require.NoError(t, json.Unmarshal(sent.msg.Body, &task))
	assert.Equal(t, "1 Main St", task.Destination.Address.Street)
}

func TestPublishStopsOnBrokerError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("publish NACK from broker")}
	p := New(pub, "dispatch_tasks", time.UTC, nil)

	rep, err := p.Publish(context.Background(), []domain.Delivery{delivery(1, "P1", ""), delivery(2, "P2", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "P1")
	assert.Empty(t, rep.Published)
}
