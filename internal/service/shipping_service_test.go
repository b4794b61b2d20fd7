package service_test

import (
	"context"
	"errors"
	"testing"

	"checkout-service/internal/models"
	"checkout-service/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func int64p(v int64) *int64 { return &v }

// rejectByName делает неприменимыми опции с именами из списка.
func rejectByName(names ...string) service.ApplicabilityFunc {
	rejected := map[string]bool{}
	for _, n := range names {
		rejected[n] = true
	}
	return func(opt models.ShippingOption, _ models.ShippingConfig, _ service.Applicability) (bool, string) {
		if rejected[opt.Name] {
			return false, "rejected by test policy"
		}
		return true, "ok"
	}
}

type shippingEnv struct {
	cart      service.CartService
	shipping  service.ShippingService
	articles  *fakeArticleRepo
	configs   *fakeConfigRepo
	addresses *fakeAddressRepo
}

func newShippingEnv(t *testing.T, isApplicable service.ApplicabilityFunc) *shippingEnv {
	t.Helper()
	nodes := &fakeNodeRepo{}
	leaves := &fakeLeafRepo{}
	articles := &fakeArticleRepo{}
	configs := &fakeConfigRepo{}
	addresses := &fakeAddressRepo{}
	cart := service.NewCartService(nodes, leaves, articles, nil, zap.NewNop())
	shipping := service.NewShippingService(cart, articles, configs, addresses, isApplicable, zap.NewNop())
	return &shippingEnv{cart: cart, shipping: shipping, articles: articles, configs: configs, addresses: addresses}
}

func (e *shippingEnv) createAddress(t *testing.T, addrType models.AddressType, country string) *models.Address {
	t.Helper()
	addr := &models.Address{AddressType: addrType, Country: country}
	if err := e.addresses.Create(context.Background(), addr); err != nil {
		t.Fatalf("create address: %v", err)
	}
	return addr
}

func (e *shippingEnv) createConfig(t *testing.T, options ...models.ShippingOption) *models.ShippingConfig {
	t.Helper()
	cfg := &models.ShippingConfig{Name: "cfg", Options: options}
	if err := e.configs.Create(context.Background(), cfg); err != nil {
		t.Fatalf("create config: %v", err)
	}
	return cfg
}

func TestChooseShippingForArticle_NotConfiguredVsUnresolvable(t *testing.T) {
	ctx := context.Background()

	// Артикул без конфигурации: "не настроено", не ошибка
	env := newShippingEnv(t, nil)
	bare := mustCreateArticle(t, env.articles, 100, nil)

	opt, status, err := env.shipping.ChooseShippingForArticle(ctx, bare.ID)
	if err != nil {
		t.Fatalf("ChooseShippingForArticle: %v", err)
	}
	if status != service.ShippingNotConfigured || opt != nil {
		t.Fatalf("expected ShippingNotConfigured, got status=%v opt=%v", status, opt)
	}

	// Конфигурация есть, но всё отклонено: различимый "неразрешимый" случай
	env = newShippingEnv(t, rejectByName("a", "b"))
	cfg := env.createConfig(t,
		models.ShippingOption{Name: "a", CostCents: int64p(100)},
		models.ShippingOption{Name: "b", CostCents: int64p(200)},
	)
	configured := mustCreateArticle(t, env.articles, 100, &cfg.ID)

	opt, status, err = env.shipping.ChooseShippingForArticle(ctx, configured.ID)
	if err != nil {
		t.Fatalf("ChooseShippingForArticle: %v", err)
	}
	if status != service.ShippingUnresolvable || opt != nil {
		t.Fatalf("expected ShippingUnresolvable, got status=%v opt=%v", status, opt)
	}

	if _, _, err := env.shipping.ChooseShippingForArticle(ctx, uuid.New()); !errors.Is(err, service.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound got %v", err)
	}
}

func TestChooseShippingForArticle_CheapestNilCostStableTie(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, rejectByName("blocked"))

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "expensive", CostCents: int64p(900)},
		models.ShippingOption{Name: "blocked", CostCents: int64p(1)},
		models.ShippingOption{Name: "free-first"}, // nil cost == 0
		models.ShippingOption{Name: "zero-second", CostCents: int64p(0)},
	)
	art := mustCreateArticle(t, env.articles, 100, &cfg.ID)

	opt, status, err := env.shipping.ChooseShippingForArticle(ctx, art.ID)
	if err != nil || status != service.ShippingResolved {
		t.Fatalf("expected resolved, got status=%v err=%v", status, err)
	}
	// nil-стоимость сравнивается как 0; при равенстве побеждает первая встреченная
	if opt.Name != "free-first" {
		t.Fatalf("expected free-first, got %s", opt.Name)
	}
}

func TestGetShippingOptionsForCart_DedupByConfigKey(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, nil)

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "standard", CostCents: int64p(500)},
	)
	art1 := mustCreateArticle(t, env.articles, 100, &cfg.ID)
	art2 := mustCreateArticle(t, env.articles, 200, &cfg.ID)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})
	sub := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{ParentID: &root.ID})

	// Два листа в разных узлах ссылаются на одну конфигурацию
	if _, err := env.cart.AddItem(ctx, root.ID, art1.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.cart.AddItem(ctx, sub.ID, art2.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	options, err := env.shipping.GetShippingOptionsForCart(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetShippingOptionsForCart: %v", err)
	}
	if len(options) != 1 {
		t.Fatalf("config must be collapsed by key: expected 1 option, got %d", len(options))
	}
}

func TestGetShippingOptionsForCart_FiltersInapplicable(t *testing.T) {
	ctx := context.Background()
	// cost 3 неприменима, cost 5 применима: дешёвая-но-неприменимая исключена
	env := newShippingEnv(t, rejectByName("cheap-blocked"))

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "ok", CostCents: int64p(5)},
		models.ShippingOption{Name: "cheap-blocked", CostCents: int64p(3)},
	)
	art := mustCreateArticle(t, env.articles, 100, &cfg.ID)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})
	if _, err := env.cart.AddItem(ctx, root.ID, art.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.cart.AddItem(ctx, root.ID, art.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	options, err := env.shipping.GetShippingOptionsForCart(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetShippingOptionsForCart: %v", err)
	}
	if len(options) != 1 || options[0].Name != "ok" || *options[0].CostCents != 5 {
		t.Fatalf("expected single applicable option cost=5, got %+v", options)
	}

	// Автовыбор берёт её же, а не отфильтрованную более дешёвую
	if err := env.shipping.SetShippingToCart(ctx, root.ID, nil); err != nil {
		t.Fatalf("SetShippingToCart: %v", err)
	}
	node, err := env.cart.GetNode(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if node.ShippingOptionID == nil || *node.ShippingOptionID != options[0].ID {
		t.Fatalf("cart must reference the applicable option, got %v", node.ShippingOptionID)
	}
}

func TestGetShippingOptionsForCart_EmptyIsNotError(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, nil)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})
	art := mustCreateArticle(t, env.articles, 100, nil) // без конфигурации
	if _, err := env.cart.AddItem(ctx, root.ID, art.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	options, err := env.shipping.GetShippingOptionsForCart(ctx, root.ID)
	if err != nil {
		t.Fatalf("empty shipping must not be an error: %v", err)
	}
	if len(options) != 0 {
		t.Fatalf("expected no options, got %d", len(options))
	}

	if _, err := env.shipping.GetShippingOptionsForCart(ctx, uuid.New()); !errors.Is(err, service.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound got %v", err)
	}
}

func TestSetShippingToCart_ExplicitKeyMustBeApplicable(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, rejectByName("blocked"))

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "ok", CostCents: int64p(500)},
		models.ShippingOption{Name: "blocked", CostCents: int64p(100)},
	)
	art := mustCreateArticle(t, env.articles, 100, &cfg.ID)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})
	if _, err := env.cart.AddItem(ctx, root.ID, art.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	var blockedID uuid.UUID
	for _, opt := range env.configs.configs[cfg.ID].Options {
		if opt.Name == "blocked" {
			blockedID = opt.ID
		}
	}

	// Неприменимый ключ: not-found, без тихого fallback на самую дешёвую
	err := env.shipping.SetShippingToCart(ctx, root.ID, &blockedID)
	if !errors.Is(err, service.ErrShippingNotFound) {
		t.Fatalf("expected ErrShippingNotFound got %v", err)
	}
	node, _ := env.cart.GetNode(ctx, root.ID)
	if node.ShippingOptionID != nil {
		t.Fatalf("shipping must not be set on failure")
	}

	// Чужой ключ тоже not-found
	randomID := uuid.New()
	if err := env.shipping.SetShippingToCart(ctx, root.ID, &randomID); !errors.Is(err, service.ErrShippingNotFound) {
		t.Fatalf("expected ErrShippingNotFound got %v", err)
	}
}

func TestGetShippingOptionsForCart_CountryFromShippingAddress(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, nil) // DefaultApplicability

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "de-post", CostCents: int64p(500), CountryCode: strp("de")},
		models.ShippingOption{Name: "at-post", CostCents: int64p(300), CountryCode: strp("at")},
		models.ShippingOption{Name: "worldwide", CostCents: int64p(900)}, // без ограничения по стране
	)
	art := mustCreateArticle(t, env.articles, 100, &cfg.ID)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})
	if _, err := env.cart.AddItem(ctx, root.ID, art.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Без адреса назначения страна неизвестна, ограничение пропускается
	options, err := env.shipping.GetShippingOptionsForCart(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetShippingOptionsForCart: %v", err)
	}
	if len(options) != 3 {
		t.Fatalf("without destination all options pass, got %d", len(options))
	}

	addr := env.createAddress(t, models.AddressTypeShipping, "DE")
	if err := env.shipping.SetShippingAddress(ctx, root.ID, addr.ID); err != nil {
		t.Fatalf("SetShippingAddress: %v", err)
	}

	// Страна сравнивается без учёта регистра, чужая страна отфильтрована
	options, err = env.shipping.GetShippingOptionsForCart(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetShippingOptionsForCart: %v", err)
	}
	names := map[string]bool{}
	for _, opt := range options {
		names[opt.Name] = true
	}
	if len(options) != 2 || !names["de-post"] || !names["worldwide"] {
		t.Fatalf("expected de-post+worldwide, got %+v", options)
	}
}

func TestSetShippingAddress_RequiresShippingType(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, nil)

	root := mustCreateCart(t, env.cart, ctx, service.CreateCartInput{})

	billing := env.createAddress(t, models.AddressTypeBilling, "DE")
	if err := env.shipping.SetShippingAddress(ctx, root.ID, billing.ID); !errors.Is(err, service.ErrShippingAddrType) {
		t.Fatalf("expected ErrShippingAddrType got %v", err)
	}
	node, _ := env.cart.GetNode(ctx, root.ID)
	if node.ShippingAddressID != nil {
		t.Fatalf("address must not be bound on type failure")
	}

	if err := env.shipping.SetShippingAddress(ctx, root.ID, uuid.New()); !errors.Is(err, service.ErrAddressNotFound) {
		t.Fatalf("expected ErrAddressNotFound got %v", err)
	}

	shippingAddr := env.createAddress(t, models.AddressTypeShipping, "DE")
	if err := env.shipping.SetShippingAddress(ctx, root.ID, shippingAddr.ID); err != nil {
		t.Fatalf("SetShippingAddress: %v", err)
	}
	node, _ = env.cart.GetNode(ctx, root.ID)
	if node.ShippingAddressID == nil || *node.ShippingAddressID != shippingAddr.ID {
		t.Fatalf("shipping address not bound: %v", node.ShippingAddressID)
	}
}

func TestChooseShippingForArticle_MaxWeightFilter(t *testing.T) {
	ctx := context.Background()
	env := newShippingEnv(t, nil)

	cfg := env.createConfig(t,
		models.ShippingOption{Name: "letter", CostCents: int64p(100), MaxWeightGrams: int64p(500)},
		models.ShippingOption{Name: "parcel", CostCents: int64p(400), MaxWeightGrams: int64p(10000)},
	)

	heavy := &models.Article{Name: "anvil", PriceCents: 100, WeightGrams: int64p(2000), ShippingConfigID: &cfg.ID}
	if err := env.articles.Create(ctx, heavy); err != nil {
		t.Fatalf("create article: %v", err)
	}

	opt, status, err := env.shipping.ChooseShippingForArticle(ctx, heavy.ID)
	if err != nil || status != service.ShippingResolved {
		t.Fatalf("expected resolved, got status=%v err=%v", status, err)
	}
	// Дешёвая опция отпала по весу
	if opt.Name != "parcel" {
		t.Fatalf("expected parcel, got %s", opt.Name)
	}

	// Вес неизвестен: ограничение пропускается, побеждает дешёвая
	unknown := mustCreateArticle(t, env.articles, 100, &cfg.ID)
	opt, status, err = env.shipping.ChooseShippingForArticle(ctx, unknown.ID)
	if err != nil || status != service.ShippingResolved {
		t.Fatalf("expected resolved, got status=%v err=%v", status, err)
	}
	if opt.Name != "letter" {
		t.Fatalf("unknown weight must skip the constraint, got %s", opt.Name)
	}
}
