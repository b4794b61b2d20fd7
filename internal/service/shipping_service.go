package service

import (
	"context"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type shippingService struct {
	cart         CartService
	articles     repository.ArticleRepo
	configs      repository.ShippingConfigRepo
	addresses    repository.AddressRepo
	isApplicable ApplicabilityFunc
	log          *zap.Logger
}

func NewShippingService(
	cart CartService,
	articles repository.ArticleRepo,
	configs repository.ShippingConfigRepo,
	addresses repository.AddressRepo,
	isApplicable ApplicabilityFunc,
	log *zap.Logger,
) ShippingService {
	if isApplicable == nil {
		isApplicable = DefaultApplicability
	}
	return &shippingService{
		cart:         cart,
		articles:     articles,
		configs:      configs,
		addresses:    addresses,
		isApplicable: isApplicable,
		log:          log,
	}
}

func costOrZero(opt models.ShippingOption) int64 {
	if opt.CostCents == nil {
		return 0
	}
	return *opt.CostCents
}

// cheapestOption: строгое "меньше" сохраняет первую встреченную опцию при
// равной стоимости.
func cheapestOption(options []models.ShippingOption) models.ShippingOption {
	best := options[0]
	for _, opt := range options[1:] {
		if costOrZero(opt) < costOrZero(best) {
			best = opt
		}
	}
	return best
}

func (s *shippingService) ChooseShippingForArticle(ctx context.Context, articleID uuid.UUID) (*models.ShippingOption, ArticleShippingStatus, error) {
	art, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, ShippingNotConfigured, err
	}
	if art == nil {
		return nil, ShippingNotConfigured, ErrArticleNotFound
	}

	if art.ShippingConfigID == nil {
		s.log.Debug("article has no shipping config set", zap.String("article", articleID.String()))
		return nil, ShippingNotConfigured, nil
	}

	cfg, err := s.configs.GetByID(ctx, *art.ShippingConfigID)
	if err != nil {
		return nil, ShippingNotConfigured, err
	}
	if cfg == nil || len(cfg.Options) == 0 {
		s.log.Debug("article shipping config is empty",
			zap.String("article", articleID.String()))
		return nil, ShippingNotConfigured, nil
	}

	var applicable []models.ShippingOption
	for _, opt := range cfg.Options {
		ok, reason := s.isApplicable(opt, *cfg, Applicability{Article: art})
		s.log.Debug("shipping option evaluated",
			zap.String("option", opt.Name), zap.Bool("applicable", ok), zap.String("reason", reason))
		if ok {
			applicable = append(applicable, opt)
		}
	}

	if len(applicable) == 0 {
		s.log.Error("no suitable shipping found for article", zap.String("article", articleID.String()))
		return nil, ShippingUnresolvable, nil
	}

	cheapest := cheapestOption(applicable)
	return &cheapest, ShippingResolved, nil
}

// shippingConfigsForCart обходит всё поддерево корзины явной очередью,
// собирает конфигурации доставки листовых артикулов и схлопывает дубликаты
// по ключу (последняя запись побеждает; все ссылки на одну конфигурацию
// структурно идентичны). Порядок первой встречи сохраняется.
func (s *shippingService) shippingConfigsForCart(ctx context.Context, startID uuid.UUID) ([]models.ShippingConfig, error) {
	byKey := map[uuid.UUID]models.ShippingConfig{}
	var order []uuid.UUID

	queue := []uuid.UUID{startID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		childNodes, childLeaves, err := s.cart.GetChildren(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, node := range childNodes {
			queue = append(queue, node.ID)
		}

		for _, leaf := range childLeaves {
			art, err := s.articles.GetByID(ctx, leaf.ArticleID)
			if err != nil {
				return nil, err
			}
			if art == nil || art.ShippingConfigID == nil {
				continue
			}
			cfg, err := s.configs.GetByID(ctx, *art.ShippingConfigID)
			if err != nil {
				return nil, err
			}
			if cfg == nil {
				continue
			}
			if _, seen := byKey[cfg.ID]; !seen {
				order = append(order, cfg.ID)
			}
			byKey[cfg.ID] = *cfg
		}
	}

	configs := make([]models.ShippingConfig, 0, len(order))
	for _, id := range order {
		configs = append(configs, byKey[id])
	}
	return configs, nil
}

// destinationCountry достаёт страну назначения из адреса доставки корзины.
// nil — адрес не выбран, ограничения по стране пропускаются.
func (s *shippingService) destinationCountry(ctx context.Context, cartNode *models.CartNode) (*string, error) {
	if cartNode.ShippingAddressID == nil {
		return nil, nil
	}
	addr, err := s.addresses.GetByID(ctx, *cartNode.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	if addr == nil || addr.Country == "" {
		return nil, nil
	}
	country := addr.Country
	return &country, nil
}

func (s *shippingService) GetShippingOptionsForCart(ctx context.Context, cartID uuid.UUID) ([]models.ShippingOption, error) {
	cartNode, err := s.cart.GetNode(ctx, cartID)
	if err != nil {
		return nil, err
	}
	country, err := s.destinationCountry(ctx, cartNode)
	if err != nil {
		return nil, err
	}

	configs, err := s.shippingConfigsForCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		s.log.Debug("cart articles have no shipping config set", zap.String("cart", cartID.String()))
		return nil, nil
	}

	var applicable []models.ShippingOption
	for _, cfg := range configs {
		for _, opt := range cfg.Options {
			ok, reason := s.isApplicable(opt, cfg, Applicability{Cart: cartNode, Country: country})
			s.log.Debug("shipping option evaluated",
				zap.String("option", opt.Name), zap.Bool("applicable", ok), zap.String("reason", reason))
			if ok {
				applicable = append(applicable, opt)
			}
		}
	}

	if len(applicable) == 0 {
		// Не ошибка: вызывающий решает, фатально ли это в его контексте
		s.log.Error("no suitable shipping found for cart", zap.String("cart", cartID.String()))
		return nil, nil
	}
	return applicable, nil
}

func (s *shippingService) SetShippingToCart(ctx context.Context, cartID uuid.UUID, optionID *uuid.UUID) error {
	applicable, err := s.GetShippingOptionsForCart(ctx, cartID)
	if err != nil {
		return err
	}

	if optionID == nil {
		if len(applicable) == 0 {
			return ErrShippingNotFound
		}
		cheapest := cheapestOption(applicable)
		return s.cart.CartUpdate(ctx, cartID, CartUpdateInput{
			ShippingOptionID: Some(&cheapest.ID),
		})
	}

	// Явный ключ обязан входить в применимое множество: навязать
	// неприменимую доставку нельзя, тихого fallback нет.
	for _, opt := range applicable {
		if opt.ID == *optionID {
			return s.cart.CartUpdate(ctx, cartID, CartUpdateInput{
				ShippingOptionID: Some(optionID),
			})
		}
	}
	return ErrShippingNotFound
}

func (s *shippingService) SetShippingAddress(ctx context.Context, cartID, addressID uuid.UUID) error {
	if _, err := s.cart.GetNode(ctx, cartID); err != nil {
		return err
	}
	addr, err := s.addresses.GetByID(ctx, addressID)
	if err != nil {
		return err
	}
	if addr == nil {
		return ErrAddressNotFound
	}
	if addr.AddressType != models.AddressTypeShipping {
		return ErrShippingAddrType
	}
	return s.cart.CartUpdate(ctx, cartID, CartUpdateInput{
		ShippingAddressID: Some(&addressID),
	})
}
