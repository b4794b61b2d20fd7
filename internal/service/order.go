package service

import (
	"context"

	"checkout-service/internal/models"

	"github.com/google/uuid"
)

// OrderAddInput: опциональные поля через Optional, чтобы отличать
// "не передано" от "явно сброшено" (Some(nil) / Some(false)).
type OrderAddInput struct {
	CartID uuid.UUID

	PaymentProvider  Optional[*string]
	BillingAddressID Optional[*uuid.UUID]
	Email            Optional[*string]
	CustomerID       Optional[*uuid.UUID]

	StateOrdered Optional[bool]
	StatePaid    Optional[bool]
	StateRTS     Optional[bool]
}

type OrderService interface {
	// OrderAdd создаёт черновик заказа из корзины (DRAFT).
	OrderAdd(ctx context.Context, in OrderAddInput) (*models.Order, error)
	// CheckoutStart: DRAFT -> STARTED. Невыполненные предусловия возвращаются
	// списком строк, не ошибкой — клиент исправляет и повторяет.
	CheckoutStart(ctx context.Context, orderID uuid.UUID) (*models.Order, []string, error)
	// CheckoutOrder: STARTED -> FINALIZED, выставляет is_ordered ровно один раз.
	CheckoutOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []string, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	// ListOrders: заказы аутентифицированного актора, новые первыми.
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error)
	PaymentProviders() []string
}
