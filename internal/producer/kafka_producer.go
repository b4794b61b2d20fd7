package producer

import (
	"context"
	"encoding/json"
	"time"

	"checkout-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// CheckoutProducer публикует события жизненного цикла checkout в один топик,
// тип события — в ключе сообщения.
type CheckoutProducer struct {
	writer *kafka.Writer
}

func NewCheckoutProducer(brokers []string, topic string) *CheckoutProducer {
	return &CheckoutProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (p *CheckoutProducer) publish(ctx context.Context, key string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *CheckoutProducer) PublishCheckoutStarted(ctx context.Context, e service.CheckoutStartedEvent) error {
	return p.publish(ctx, "checkout_started", e)
}

func (p *CheckoutProducer) PublishOrderPlaced(ctx context.Context, e service.OrderPlacedEvent) error {
	return p.publish(ctx, "order_placed", e)
}

func (p *CheckoutProducer) Close() error {
	return p.writer.Close()
}
