package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"delivery-scheduler/internal/common/logger"
	"delivery-scheduler/internal/connections/rabbitmq"
	"delivery-scheduler/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, m rabbitmq.Message) error
}

type Dispatcher struct {
	pub      Publisher
	exchange string
	loc      *time.Location
	log      *logger.Logger
	newID    func() string
}

func New(pub Publisher, exchange string, loc *time.Location, lg *logger.Logger) *Dispatcher {
	if lg == nil {
		lg = logger.Discard()
	}
	return &Dispatcher{pub: pub, exchange: exchange, loc: loc, log: lg, newID: uuid.NewString}
}

// Report lists what Publish did per order number.
type Report struct {
	Published []string
	Skipped   map[string]string // order number -> reason
}

func routingKey(d domain.Delivery) string {
	return "task." + strings.ToLower(d.DeliveryType.String())
}

// Publish sends one persistent task message per stored delivery and waits
// for the broker to confirm each. Deliveries that are not stored or have no
// address are skipped; a publish failure stops the batch.
func (p *Dispatcher) Publish(ctx context.Context, ds []domain.Delivery) (Report, error) {
	rep := Report{Skipped: map[string]string{}}
	for _, d := range ds {
		if !d.Persisted() {
			rep.Skipped[d.OrderNumber] = "not saved"
			continue
		}
		task, err := BuildTask(d, p.loc)
		if errors.Is(err, ErrNoAddress) {
			p.log.Warn("dispatch_skipped", map[string]any{"order_number": d.OrderNumber, "reason": err.Error()})
			rep.Skipped[d.OrderNumber] = err.Error()
			continue
		}
		if err != nil {
			return rep, err
		}
		body, err := json.Marshal(task)
		if err != nil {
			return rep, fmt.Errorf("encode task %s: %w", d.OrderNumber, err)
		}

		msg := rabbitmq.Message{
			ID:         p.newID(),
			Body:       body,
			Persistent: true,
			Headers:    amqp.Table{"order_number": d.OrderNumber, "delivery_id": d.ID},
		}
		if err := p.pub.Publish(ctx, p.exchange, routingKey(d), msg); err != nil {
			p.log.Error("dispatch_failed", err, map[string]any{"order_number": d.OrderNumber})
			return rep, fmt.Errorf("publish task %s: %w", d.OrderNumber, err)
		}
		p.log.Info("dispatch_published", map[string]any{"order_number": d.OrderNumber, "message_id": msg.ID})
		rep.Published = append(rep.Published, d.OrderNumber)
	}
	return rep, nil
}
