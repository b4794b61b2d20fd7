package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CheckoutStartedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	OrderUID   string    `json:"order_uid"`
	CartID     uuid.UUID `json:"cart_id"`
	TotalCents int64     `json:"total_cents"`
	StartedAt  time.Time `json:"started_at"`
}

type OrderPlacedEvent struct {
	OrderID         uuid.UUID `json:"order_id"`
	OrderUID        string    `json:"order_uid,omitempty"`
	CartID          uuid.UUID `json:"cart_id"`
	TotalCents      int64     `json:"total_cents"`
	PaymentProvider string    `json:"payment_provider"`
	PlacedAt        time.Time `json:"placed_at"`
}

type EventBus interface {
	PublishCheckoutStarted(ctx context.Context, e CheckoutStartedEvent) error
	PublishOrderPlaced(ctx context.Context, e OrderPlacedEvent) error
}
