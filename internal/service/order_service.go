package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderService struct {
	orders    repository.OrderRepo
	addresses repository.AddressRepo
	cart      CartService
	providers *ProviderRegistry
	events    EventBus
	now       func() time.Time
	log       *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepo,
	addresses repository.AddressRepo,
	cart CartService,
	providers *ProviderRegistry,
	events EventBus,
	log *zap.Logger,
) OrderService {
	return &orderService{
		orders:    orders,
		addresses: addresses,
		cart:      cart,
		providers: providers,
		events:    events,
		now:       time.Now,
		log:       log,
	}
}

func (s *orderService) OrderAdd(ctx context.Context, in OrderAddInput) (*models.Order, error) {
	valid, err := s.cart.IsValidNode(ctx, in.CartID, true)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCart
	}

	// Актуализируем агрегат перед копированием в заказ
	total, err := s.cart.RecomputeTotal(ctx, in.CartID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CartID:     in.CartID,
		TotalCents: total,
	}

	// Аутентифицированный актор — значение по умолчанию, явные аргументы
	// его перекрывают
	if actor, ok := ActorFromContext(ctx); ok {
		email := actor.Email
		customerID := actor.CustomerID
		order.Email = &email
		order.CustomerID = &customerID
	}

	if v, ok := in.PaymentProvider.Get(); ok {
		order.PaymentProvider = v
	}
	if v, ok := in.BillingAddressID.Get(); ok {
		if v != nil {
			addr, err := s.addresses.GetByID(ctx, *v)
			if err != nil {
				return nil, err
			}
			if addr == nil {
				return nil, ErrAddressNotFound
			}
			if addr.AddressType != models.AddressTypeBilling {
				return nil, ErrBillingAddressType
			}
		}
		order.BillingAddressID = v
	}
	if v, ok := in.Email.Get(); ok {
		order.Email = v
	}
	if v, ok := in.CustomerID.Get(); ok {
		order.CustomerID = v
	}
	if v, ok := in.StateOrdered.Get(); ok {
		order.StateOrdered = v
	}
	if v, ok := in.StatePaid.Get(); ok {
		order.StatePaid = v
	}
	if v, ok := in.StateRTS.Get(); ok {
		order.StateRTS = v
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// Корзина стала заказной и больше не редактируется как активная
	if sessionCart, ok, err := s.cart.CurrentSessionCartKey(ctx); err != nil {
		return nil, err
	} else if ok && sessionCart == in.CartID {
		if err := s.cart.DetachSessionCart(ctx); err != nil {
			return nil, err
		}
	}

	return order, nil
}

func (s *orderService) canCheckout(order *models.Order) ([]string, error) {
	var errs []string
	if order.CartID == uuid.Nil {
		errs = append(errs, "missing cart")
	}
	if order.PaymentProvider == nil || *order.PaymentProvider == "" {
		errs = append(errs, "missing payment_provider")
	} else {
		provider, err := s.providers.ByName(*order.PaymentProvider)
		if err != nil {
			return nil, err
		}
		errs = append(errs, provider.CanCheckout(order)...)
	}
	return errs, nil
}

func (s *orderService) canOrder(order *models.Order) ([]string, error) {
	var errs []string
	if order.IsOrdered {
		errs = append(errs, "already is_ordered")
	}
	if order.CartID == uuid.Nil {
		errs = append(errs, "missing cart")
	}
	if order.PaymentProvider == nil || *order.PaymentProvider == "" {
		errs = append(errs, "missing payment_provider")
	} else {
		provider, err := s.providers.ByName(*order.PaymentProvider)
		if err != nil {
			return nil, err
		}
		errs = append(errs, provider.CanOrder(order)...)
	}
	return errs, nil
}

// assignUID — цифры метки времени, сгруппированные дефисом по четыре.
// Уникальность в одном тик-окне обеспечивается не схемой, а уникальным
// индексом на order_uid и версионной проверкой при записи.
func (s *orderService) assignUID() string {
	digits := strconv.FormatInt(s.now().UnixNano(), 10)
	var b strings.Builder
	for i, c := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(c)
	}
	return b.String()
}

func (s *orderService) CheckoutStart(ctx context.Context, orderID uuid.UUID) (*models.Order, []string, error) {
	var (
		out   *models.Order
		verrs []string
	)
	err := s.orders.WithTx(ctx, func(tx repository.OrderRepo) error {
		order, err := tx.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		errs, err := s.canCheckout(order)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			verrs = errs
			return nil
		}

		// Freeze: пересчитать корзину и зафиксировать значения на заказе,
		// чтобы последующие правки корзины не меняли начатый заказ
		total, err := s.cart.RecomputeTotal(ctx, order.CartID)
		if err != nil {
			return err
		}
		order.TotalCents = total

		if order.OrderUID == nil {
			uid := s.assignUID()
			order.OrderUID = &uid
		}

		saved, err := tx.SaveChecked(ctx, order)
		if err != nil {
			return err
		}
		if !saved {
			return ErrConflict
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(verrs) > 0 {
		s.log.Error("checkout start rejected", zap.Strings("errors", verrs))
		return nil, verrs, nil
	}

	if s.events != nil {
		_ = s.events.PublishCheckoutStarted(ctx, CheckoutStartedEvent{
			OrderID:    out.ID,
			OrderUID:   *out.OrderUID,
			CartID:     out.CartID,
			TotalCents: out.TotalCents,
			StartedAt:  s.now(),
		})
	}

	return out, nil, nil
}

func (s *orderService) CheckoutOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []string, error) {
	var (
		out   *models.Order
		verrs []string
	)
	err := s.orders.WithTx(ctx, func(tx repository.OrderRepo) error {
		order, err := tx.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		errs, err := s.canOrder(order)
		if err != nil {
			return err
		}
		if len(errs) > 0 {
			verrs = errs
			return nil
		}

		// state_ordered — независимый флаг внешних событий, финализация
		// выставляет только is_ordered
		order.IsOrdered = true

		saved, err := tx.SaveChecked(ctx, order)
		if err != nil {
			return err
		}
		if !saved {
			return ErrConflict
		}
		out = order
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(verrs) > 0 {
		s.log.Error("checkout order rejected", zap.Strings("errors", verrs))
		return nil, verrs, nil
	}

	if s.events != nil {
		uid := ""
		if out.OrderUID != nil {
			uid = *out.OrderUID
		}
		provider := ""
		if out.PaymentProvider != nil {
			provider = *out.PaymentProvider
		}
		_ = s.events.PublishOrderPlaced(ctx, OrderPlacedEvent{
			OrderID:         out.ID,
			OrderUID:        uid,
			CartID:          out.CartID,
			TotalCents:      out.TotalCents,
			PaymentProvider: provider,
			PlacedAt:        s.now(),
		})
	}

	return out, nil, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return nil, 0, ErrNoActor
	}
	return s.orders.ListByCustomer(ctx, actor.CustomerID, limit, offset)
}

func (s *orderService) PaymentProviders() []string {
	return s.providers.Names()
}
