package dto

import (
	"encoding/json"
	"time"

	"checkout-service/internal/models"

	"github.com/google/uuid"
)

// Field отличает отсутствующий в JSON ключ от явного null:
// UnmarshalJSON вызывается только когда ключ присутствует.
type Field[T any] struct {
	Value T
	Set   bool
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	return json.Unmarshal(b, &f.Value)
}

type OrderAddRequest struct {
	CartKey string `json:"cart_key" binding:"required"`

	PaymentProvider   Field[*string] `json:"payment_provider"`
	BillingAddressKey Field[*string] `json:"billing_address_key"`
	Email             Field[*string] `json:"email"`
	CustomerKey       Field[*string] `json:"customer_key"`

	StateOrdered Field[bool] `json:"state_ordered"`
	StatePaid    Field[bool] `json:"state_paid"`
	StateRTS     Field[bool] `json:"state_rts"`
}

type CreateCartRequest struct {
	ParentKey     *string `json:"parent_key"`
	CartType      string  `json:"cart_type"`
	Name          string  `json:"name"`
	BindToSession bool    `json:"bind_to_session"`
}

type AddItemRequest struct {
	ArticleKey string `json:"article_key" binding:"required"`
	Quantity   uint32 `json:"quantity" binding:"required"`
}

type SetShippingRequest struct {
	CartKey     *string `json:"cart_key"`
	ShippingKey *string `json:"shipping_key"`
}

type SetShippingAddressRequest struct {
	CartKey    *string `json:"cart_key"`
	AddressKey string  `json:"address_key" binding:"required"`
}

type OrderResponse struct {
	Key             string    `json:"key"`
	CartKey         string    `json:"cart_key"`
	TotalCents      int64     `json:"total_cents"`
	PaymentProvider *string   `json:"payment_provider"`
	BillingAddress  *string   `json:"billing_address_key"`
	CustomerKey     *string   `json:"customer_key"`
	Email           *string   `json:"email"`
	StateOrdered    bool      `json:"state_ordered"`
	StatePaid       bool      `json:"state_paid"`
	StateRTS        bool      `json:"state_rts"`
	IsOrdered       bool      `json:"is_ordered"`
	OrderUID        *string   `json:"order_uid"`
	CreatedAt       time.Time `json:"created_at"`
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ToOrderResponse(o *models.Order) OrderResponse {
	return OrderResponse{
		Key:             o.ID.String(),
		CartKey:         o.CartID.String(),
		TotalCents:      o.TotalCents,
		PaymentProvider: o.PaymentProvider,
		BillingAddress:  uuidString(o.BillingAddressID),
		CustomerKey:     uuidString(o.CustomerID),
		Email:           o.Email,
		StateOrdered:    o.StateOrdered,
		StatePaid:       o.StatePaid,
		StateRTS:        o.StateRTS,
		IsOrdered:       o.IsOrdered,
		OrderUID:        o.OrderUID,
		CreatedAt:       o.CreatedAt,
	}
}

type CartNodeResponse struct {
	Key                string  `json:"key"`
	ParentKey          *string `json:"parent_key"`
	CartType           string  `json:"cart_type"`
	Name               string  `json:"name"`
	TotalCents         int64   `json:"total_cents"`
	ShippingKey        *string `json:"shipping_key"`
	ShippingAddressKey *string `json:"shipping_address_key"`
}

func ToCartNodeResponse(n *models.CartNode) CartNodeResponse {
	return CartNodeResponse{
		Key:                n.ID.String(),
		ParentKey:          uuidString(n.ParentID),
		CartType:           string(n.CartType),
		Name:               n.Name,
		TotalCents:         n.TotalCents,
		ShippingKey:        uuidString(n.ShippingOptionID),
		ShippingAddressKey: uuidString(n.ShippingAddressID),
	}
}

type CartLeafResponse struct {
	Key            string `json:"key"`
	NodeKey        string `json:"node_key"`
	ArticleKey     string `json:"article_key"`
	Quantity       uint32 `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

func ToCartLeafResponse(l *models.CartLeaf) CartLeafResponse {
	return CartLeafResponse{
		Key:            l.ID.String(),
		NodeKey:        l.NodeID.String(),
		ArticleKey:     l.ArticleID.String(),
		Quantity:       l.Quantity,
		UnitPriceCents: l.UnitPriceCents,
	}
}

type ShippingOptionResponse struct {
	Key       string `json:"key"`
	ConfigKey string `json:"config_key"`
	Name      string `json:"name"`
	CostCents int64  `json:"cost_cents"`
}

func ToShippingOptionResponse(o *models.ShippingOption) ShippingOptionResponse {
	var cost int64
	if o.CostCents != nil {
		cost = *o.CostCents
	}
	return ShippingOptionResponse{
		Key:       o.ID.String(),
		ConfigKey: o.ConfigID.String(),
		Name:      o.Name,
		CostCents: cost,
	}
}
