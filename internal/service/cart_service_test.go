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

func newCartEnv() (service.CartService, *fakeNodeRepo, *fakeLeafRepo, *fakeArticleRepo, *fakeSessionStore) {
	nodes := &fakeNodeRepo{}
	leaves := &fakeLeafRepo{}
	articles := &fakeArticleRepo{}
	sessions := &fakeSessionStore{}
	svc := service.NewCartService(nodes, leaves, articles, sessions, zap.NewNop())
	return svc, nodes, leaves, articles, sessions
}

func mustCreateCart(t *testing.T, svc service.CartService, ctx context.Context, in service.CreateCartInput) *models.CartNode {
	t.Helper()
	node, err := svc.CreateCart(ctx, in)
	if err != nil {
		t.Fatalf("CreateCart: %v", err)
	}
	return node
}

func mustCreateArticle(t *testing.T, articles *fakeArticleRepo, priceCents int64, cfgID *uuid.UUID) *models.Article {
	t.Helper()
	art := &models.Article{Name: "art", PriceCents: priceCents, ShippingConfigID: cfgID}
	if err := articles.Create(context.Background(), art); err != nil {
		t.Fatalf("create article: %v", err)
	}
	return art
}

func TestCartService_IsValidNode(t *testing.T) {
	svc, _, _, _, _ := newCartEnv()
	ctx := context.Background()

	root := mustCreateCart(t, svc, ctx, service.CreateCartInput{})
	sub := mustCreateCart(t, svc, ctx, service.CreateCartInput{ParentID: &root.ID})

	if ok, _ := svc.IsValidNode(ctx, root.ID, true); !ok {
		t.Fatalf("root must be valid as root node")
	}
	// Под-корзина там, где требуется полная корзина, отклоняется
	if ok, _ := svc.IsValidNode(ctx, sub.ID, true); ok {
		t.Fatalf("sub-cart must not be valid as root node")
	}
	if ok, _ := svc.IsValidNode(ctx, sub.ID, false); !ok {
		t.Fatalf("sub-cart must be valid as plain node")
	}
	if ok, _ := svc.IsValidNode(ctx, uuid.New(), false); ok {
		t.Fatalf("missing node must be invalid")
	}
}

func TestCartService_RecomputeTotal_Subtree(t *testing.T) {
	svc, _, _, articles, _ := newCartEnv()
	ctx := context.Background()

	root := mustCreateCart(t, svc, ctx, service.CreateCartInput{})
	sub := mustCreateCart(t, svc, ctx, service.CreateCartInput{ParentID: &root.ID})
	subsub := mustCreateCart(t, svc, ctx, service.CreateCartInput{ParentID: &sub.ID})

	a1 := mustCreateArticle(t, articles, 500, nil)
	a2 := mustCreateArticle(t, articles, 300, nil)

	if _, err := svc.AddItem(ctx, root.ID, a1.ID, 2); err != nil { // 1000
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, sub.ID, a2.ID, 1); err != nil { // 300
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(ctx, subsub.ID, a2.ID, 3); err != nil { // 900
		t.Fatalf("AddItem: %v", err)
	}

	total, err := svc.RecomputeTotal(ctx, root.ID)
	if err != nil {
		t.Fatalf("RecomputeTotal: %v", err)
	}
	if total != 2200 {
		t.Fatalf("total expected 2200 got %d", total)
	}

	got, err := svc.GetNode(ctx, root.ID)
	if err != nil {
		t.Fatalf("GetNode: %v", err)
	}
	if got.TotalCents != 2200 {
		t.Fatalf("persisted total expected 2200 got %d", got.TotalCents)
	}

	// Пересчёт поддерева не трогает агрегаты выше
	subTotal, err := svc.RecomputeTotal(ctx, sub.ID)
	if err != nil {
		t.Fatalf("RecomputeTotal(sub): %v", err)
	}
	if subTotal != 1200 {
		t.Fatalf("sub total expected 1200 got %d", subTotal)
	}
}

func TestCartService_AddItem_Validation(t *testing.T) {
	svc, _, _, articles, _ := newCartEnv()
	ctx := context.Background()

	root := mustCreateCart(t, svc, ctx, service.CreateCartInput{})
	art := mustCreateArticle(t, articles, 100, nil)

	if _, err := svc.AddItem(ctx, root.ID, art.ID, 0); !errors.Is(err, service.ErrQuantityInvalid) {
		t.Fatalf("expected ErrQuantityInvalid got %v", err)
	}
	if _, err := svc.AddItem(ctx, uuid.New(), art.ID, 1); !errors.Is(err, service.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound got %v", err)
	}
	if _, err := svc.AddItem(ctx, root.ID, uuid.New(), 1); !errors.Is(err, service.ErrArticleNotFound) {
		t.Fatalf("expected ErrArticleNotFound got %v", err)
	}

	leaf, err := svc.AddItem(ctx, root.ID, art.ID, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if leaf.UnitPriceCents != 100 {
		t.Fatalf("leaf must snapshot article price, got %d", leaf.UnitPriceCents)
	}
}

func TestCartService_CartUpdate_PartialFields(t *testing.T) {
	svc, _, _, _, _ := newCartEnv()
	ctx := context.Background()

	root := mustCreateCart(t, svc, ctx, service.CreateCartInput{Name: "before", CartType: models.CartTypeBasket})

	optID := uuid.New()
	if err := svc.CartUpdate(ctx, root.ID, service.CartUpdateInput{
		ShippingOptionID: service.Some(&optID),
	}); err != nil {
		t.Fatalf("CartUpdate: %v", err)
	}

	got, _ := svc.GetNode(ctx, root.ID)
	if got.Name != "before" {
		t.Fatalf("name must be untouched, got %q", got.Name)
	}
	if got.ShippingOptionID == nil || *got.ShippingOptionID != optID {
		t.Fatalf("shipping option not set: %v", got.ShippingOptionID)
	}

	// Явный сброс: Some(nil) отличается от "не передано"
	if err := svc.CartUpdate(ctx, root.ID, service.CartUpdateInput{
		ShippingOptionID: service.Some[*uuid.UUID](nil),
	}); err != nil {
		t.Fatalf("CartUpdate clear: %v", err)
	}
	got, _ = svc.GetNode(ctx, root.ID)
	if got.ShippingOptionID != nil {
		t.Fatalf("shipping option must be cleared")
	}

	if err := svc.CartUpdate(ctx, uuid.New(), service.CartUpdateInput{}); !errors.Is(err, service.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound got %v", err)
	}
}

func TestCartService_SessionCart_DetachIdempotent(t *testing.T) {
	svc, _, _, _, _ := newCartEnv()
	ctx := service.WithSessionID(context.Background(), "sess-1")

	if _, ok, err := svc.CurrentSessionCartKey(ctx); err != nil || ok {
		t.Fatalf("session without cart: ok=%v err=%v", ok, err)
	}

	root := mustCreateCart(t, svc, ctx, service.CreateCartInput{BindToSession: true})

	id, ok, err := svc.CurrentSessionCartKey(ctx)
	if err != nil || !ok || id != root.ID {
		t.Fatalf("session cart binding: id=%v ok=%v err=%v", id, ok, err)
	}

	if err := svc.DetachSessionCart(ctx); err != nil {
		t.Fatalf("DetachSessionCart: %v", err)
	}
	if _, ok, _ := svc.CurrentSessionCartKey(ctx); ok {
		t.Fatalf("cart must be detached")
	}
	// повторный detach — no-op
	if err := svc.DetachSessionCart(ctx); err != nil {
		t.Fatalf("DetachSessionCart repeat: %v", err)
	}

	// Данные корзины при detach не удаляются
	if got, err := svc.GetNode(ctx, root.ID); err != nil || got == nil {
		t.Fatalf("cart data must survive detach: %v %v", got, err)
	}
}
