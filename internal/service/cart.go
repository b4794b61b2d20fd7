package service

import (
	"context"

	"checkout-service/internal/models"

	"github.com/google/uuid"
)

type CreateCartInput struct {
	ParentID *uuid.UUID // nil — новый корень корзины
	CartType models.CartType
	Name     string
	// BindToSession привязывает созданный корень к текущей сессии.
	BindToSession bool
}

// CartUpdateInput — частичное обновление: записываются только присутствующие
// поля. ShippingOptionID = Some(nil) явно сбрасывает выбор доставки.
type CartUpdateInput struct {
	Name              Optional[string]
	CartType          Optional[models.CartType]
	ShippingOptionID  Optional[*uuid.UUID]
	ShippingAddressID Optional[*uuid.UUID]
}

type CartService interface {
	CreateCart(ctx context.Context, in CreateCartInput) (*models.CartNode, error)
	AddItem(ctx context.Context, nodeID, articleID uuid.UUID, quantity uint32) (*models.CartLeaf, error)
	RemoveItem(ctx context.Context, leafID uuid.UUID) error

	// GetChildren возвращает только прямых детей; полный обход поддерева —
	// забота вызывающего.
	GetChildren(ctx context.Context, nodeID uuid.UUID) ([]models.CartNode, []models.CartLeaf, error)
	GetNode(ctx context.Context, nodeID uuid.UUID) (*models.CartNode, error)
	IsValidNode(ctx context.Context, id uuid.UUID, rootNode bool) (bool, error)
	CartUpdate(ctx context.Context, id uuid.UUID, in CartUpdateInput) error
	RecomputeTotal(ctx context.Context, nodeID uuid.UUID) (int64, error)

	// CurrentSessionCartKey: false — у сессии ещё нет корзины, это нормальное
	// состояние, не ошибка.
	CurrentSessionCartKey(ctx context.Context) (uuid.UUID, bool, error)
	DetachSessionCart(ctx context.Context) error
}

// SessionCartStore хранит привязку сессия -> активная корзина.
type SessionCartStore interface {
	SetSessionCart(ctx context.Context, sessionID string, cartID uuid.UUID) error
	GetSessionCart(ctx context.Context, sessionID string) (uuid.UUID, bool, error)
	DelSessionCart(ctx context.Context, sessionID string) error
}
