// Package events publishes order lifecycle notifications to Kafka for
// downstream consumers (fulfilment, email, analytics). Publishing is best
// effort: a broker outage must never fail the customer-facing request.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/ledgerlane/storefront/internal/shop/domain"
	"github.com/ledgerlane/storefront/pkg/slogx"
)

const (
	TypeOrderCreated   = "order.created"
	TypeOrderConfirmed = "order.confirmed"
	TypeOrderFulfilled = "order.fulfilled"
)

const publishTimeout = 5 * time.Second

// OrderEvent is the wire shape for order lifecycle messages. Amount is in
// pennies. No personal data goes on the topic.
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer writes order events to a single topic, keyed by order id so all
// events for one order land on the same partition in order. A nil Producer
// is valid and drops everything, which is how deployments without Kafka run.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: publishTimeout,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (p *Producer) OrderCreated(ctx context.Context, order domain.Order) {
	p.publish(ctx, TypeOrderCreated, order)
}

func (p *Producer) OrderConfirmed(ctx context.Context, order domain.Order) {
	p.publish(ctx, TypeOrderConfirmed, order)
}

func (p *Producer) OrderFulfilled(ctx context.Context, order domain.Order) {
	p.publish(ctx, TypeOrderFulfilled, order)
}

func (p *Producer) publish(ctx context.Context, eventType string, order domain.Order) {
	if p == nil {
		return
	}

	event := OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Amount:     order.AmountCharged,
		Status:     string(order.Status),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		slogx.FromContext(ctx).Error("marshal order event",
			slog.String("type", eventType), slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
	})
	if err != nil {
		slogx.FromContext(ctx).Error("publish order event",
			slog.String("type", eventType),
			slog.String("order_id", order.ID),
			slog.Any("error", err))
	}
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
