package models

import (
	"time"

	"github.com/google/uuid"
)

type CartType string

const (
	CartTypeWishlist CartType = "wishlist"
	CartTypeBasket   CartType = "basket"
)

type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
)

type ArticleAvailability string

const (
	AvailabilityInStock      ArticleAvailability = "instock"
	AvailabilityOutOfStock   ArticleAvailability = "outofstock"
	AvailabilityLimited      ArticleAvailability = "limited"
	AvailabilityDiscontinued ArticleAvailability = "discontinued"
	AvailabilityPreorder     ArticleAvailability = "preorder"
)

// CartNode — узел дерева корзины. ParentID == nil означает корень корзины.
// ShippingAddressID имеет смысл только на корне: страна назначения для
// предиката применимости доставки.
type CartNode struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ParentID          *uuid.UUID `gorm:"type:uuid;index"`
	CartType          CartType   `gorm:"type:text;not null;default:'basket'"`
	Name              string     `gorm:"type:text;not null;default:''"`
	TotalCents        int64      `gorm:"not null;default:0"` // лениво пересчитывается из листьев поддерева
	ShippingOptionID  *uuid.UUID `gorm:"type:uuid"`
	ShippingAddressID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartNode) TableName() string { return "cart_nodes" }

type CartLeaf struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	NodeID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ArticleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       uint32    `gorm:"type:int;not null"`
	UnitPriceCents int64     `gorm:"not null"` // снапшот цены на момент добавления

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartLeaf) TableName() string { return "cart_leaves" }

type Article struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string              `gorm:"type:text;not null"`
	PriceCents       int64               `gorm:"not null;default:0"`
	WeightGrams      *int64              // nil — вес неизвестен, ограничения по весу пропускаются
	Availability     ArticleAvailability `gorm:"type:text;not null;default:'instock'"`
	ShippingConfigID *uuid.UUID          `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Article) TableName() string { return "articles" }

type ShippingConfig struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"type:text;not null"`

	Options []ShippingOption `gorm:"foreignKey:ConfigID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (ShippingConfig) TableName() string { return "shipping_configs" }

// ShippingOption — кандидат доставки. CostCents == nil при сравнении считается нулём.
// CountryCode/MaxWeightGrams/MinTotalCents — входы предиката применимости,
// само ядро их не интерпретирует.
type ShippingOption struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ConfigID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"type:text;not null"`
	CostCents      *int64
	CountryCode    *string `gorm:"type:char(2)"`
	MaxWeightGrams *int64
	MinTotalCents  *int64

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (ShippingOption) TableName() string { return "shipping_options" }

type Address struct {
	ID          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AddressType AddressType `gorm:"type:text;not null;index"`
	Name        string      `gorm:"type:text;not null;default:''"`
	Street      string      `gorm:"type:text;not null;default:''"`
	City        string      `gorm:"type:text;not null;default:''"`
	Zip         string      `gorm:"type:text;not null;default:''"`
	Country     string      `gorm:"type:char(2);not null;default:''"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }

// Order — снапшот корзины; после финализации неизменяем.
// OrderUID назначается не более одного раза, при старте checkout.
type Order struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	TotalCents       int64      `gorm:"not null;default:0"`
	PaymentProvider  *string    `gorm:"type:text"`
	BillingAddressID *uuid.UUID `gorm:"type:uuid"`
	CustomerID       *uuid.UUID `gorm:"type:uuid;index"`
	Email            *string    `gorm:"type:text"`

	StateOrdered bool `gorm:"not null;default:false"`
	StatePaid    bool `gorm:"not null;default:false"`
	StateRTS     bool `gorm:"not null;default:false"`

	IsOrdered bool    `gorm:"not null;default:false"`
	OrderUID  *string `gorm:"type:text;uniqueIndex"`

	Version int `gorm:"not null;default:0"` // оптимистическая блокировка переходов

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Order) TableName() string { return "orders" }
