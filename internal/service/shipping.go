package service

import (
	"context"
	"strings"

	"checkout-service/internal/models"

	"github.com/google/uuid"
)

// ArticleShippingStatus различает два случая отсутствия результата:
// "конфигурации нет вовсе" и "конфигурация есть, но ни одна опция не
// применима" — выше по стеку они требуют разного fallback.
type ArticleShippingStatus int

const (
	ShippingResolved ArticleShippingStatus = iota
	ShippingNotConfigured
	ShippingUnresolvable
)

// Applicability — вход предиката: заполняется ровно одно из Article/Cart в
// зависимости от места вызова. Country — страна назначения из адреса доставки
// корзины, nil когда адрес не выбран.
type Applicability struct {
	Article *models.Article
	Cart    *models.CartNode
	Country *string
}

// ApplicabilityFunc — подключаемая политика применимости опции доставки.
// При false обязана возвращать человеко-читаемую причину.
type ApplicabilityFunc func(opt models.ShippingOption, cfg models.ShippingConfig, in Applicability) (bool, string)

type ShippingService interface {
	// ChooseShippingForArticle выбирает самую дешёвую применимую опцию.
	ChooseShippingForArticle(ctx context.Context, articleID uuid.UUID) (*models.ShippingOption, ArticleShippingStatus, error)
	// GetShippingOptionsForCart возвращает все применимые опции для всего
	// поддерева корзины. Пустой результат — не ошибка.
	GetShippingOptionsForCart(ctx context.Context, cartID uuid.UUID) ([]models.ShippingOption, error)
	// SetShippingToCart: optionID == nil — выбрать самую дешёвую применимую;
	// явный ключ обязан входить в применимое множество.
	SetShippingToCart(ctx context.Context, cartID uuid.UUID, optionID *uuid.UUID) error
	// SetShippingAddress привязывает адрес назначения к корню корзины;
	// адрес обязан быть типа shipping.
	SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) error
}

// DefaultApplicability интерпретирует входы опции; ограничение, для которого
// нет данных (nil с любой стороны), пропускается.
func DefaultApplicability(opt models.ShippingOption, cfg models.ShippingConfig, in Applicability) (bool, string) {
	if opt.CountryCode != nil && in.Country != nil && !strings.EqualFold(*opt.CountryCode, *in.Country) {
		return false, "option does not deliver to destination country"
	}
	if opt.MaxWeightGrams != nil && in.Article != nil && in.Article.WeightGrams != nil &&
		*in.Article.WeightGrams > *opt.MaxWeightGrams {
		return false, "article exceeds maximum weight for this option"
	}
	if opt.MinTotalCents != nil {
		var total int64
		switch {
		case in.Cart != nil:
			total = in.Cart.TotalCents
		case in.Article != nil:
			total = in.Article.PriceCents
		}
		if total < *opt.MinTotalCents {
			return false, "total below minimum for this option"
		}
	}
	return true, "ok"
}
