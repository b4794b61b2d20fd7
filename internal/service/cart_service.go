package service

import (
	"context"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type cartService struct {
	nodes    repository.CartNodeRepo
	leaves   repository.CartLeafRepo
	articles repository.ArticleRepo
	sessions SessionCartStore // nil — сервис работает без сессий
	log      *zap.Logger
}

func NewCartService(
	nodes repository.CartNodeRepo,
	leaves repository.CartLeafRepo,
	articles repository.ArticleRepo,
	sessions SessionCartStore,
	log *zap.Logger,
) CartService {
	return &cartService{
		nodes:    nodes,
		leaves:   leaves,
		articles: articles,
		sessions: sessions,
		log:      log,
	}
}

func (s *cartService) CreateCart(ctx context.Context, in CreateCartInput) (*models.CartNode, error) {
	if in.ParentID != nil {
		parent, err := s.nodes.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCartNotFound
		}
	}

	cartType := in.CartType
	if cartType == "" {
		cartType = models.CartTypeBasket
	}

	node := &models.CartNode{
		ParentID: in.ParentID,
		CartType: cartType,
		Name:     in.Name,
	}
	if err := s.nodes.Create(ctx, node); err != nil {
		return nil, err
	}

	if in.BindToSession && in.ParentID == nil && s.sessions != nil {
		sessionID, ok := SessionIDFromContext(ctx)
		if !ok {
			return nil, ErrNoSession
		}
		if err := s.sessions.SetSessionCart(ctx, sessionID, node.ID); err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (s *cartService) AddItem(ctx context.Context, nodeID, articleID uuid.UUID, quantity uint32) (*models.CartLeaf, error) {
	if quantity == 0 {
		return nil, ErrQuantityInvalid
	}

	exists, err := s.nodes.Exists(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCartNotFound
	}

	art, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	leaf := &models.CartLeaf{
		NodeID:         nodeID,
		ArticleID:      articleID,
		Quantity:       quantity,
		UnitPriceCents: art.PriceCents, // снапшот цены
	}
	if err := s.leaves.Create(ctx, leaf); err != nil {
		return nil, err
	}
	return leaf, nil
}

func (s *cartService) RemoveItem(ctx context.Context, leafID uuid.UUID) error {
	deleted, err := s.leaves.Delete(ctx, leafID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCartNotFound
	}
	return nil
}

func (s *cartService) GetChildren(ctx context.Context, nodeID uuid.UUID) ([]models.CartNode, []models.CartLeaf, error) {
	exists, err := s.nodes.Exists(ctx, nodeID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, ErrCartNotFound
	}

	nodes, err := s.nodes.ChildNodes(ctx, nodeID)
	if err != nil {
		return nil, nil, err
	}
	leaves, err := s.leaves.ByNode(ctx, nodeID)
	if err != nil {
		return nil, nil, err
	}
	return nodes, leaves, nil
}

func (s *cartService) GetNode(ctx context.Context, nodeID uuid.UUID) (*models.CartNode, error) {
	node, err := s.nodes.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, ErrCartNotFound
	}
	return node, nil
}

func (s *cartService) IsValidNode(ctx context.Context, id uuid.UUID, rootNode bool) (bool, error) {
	node, err := s.nodes.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, nil
	}
	if rootNode && node.ParentID != nil {
		return false, nil
	}
	return true, nil
}

func (s *cartService) CartUpdate(ctx context.Context, id uuid.UUID, in CartUpdateInput) error {
	exists, err := s.nodes.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCartNotFound
	}

	fields := map[string]any{}
	if v, ok := in.Name.Get(); ok {
		fields["name"] = v
	}
	if v, ok := in.CartType.Get(); ok {
		fields["cart_type"] = v
	}
	if v, ok := in.ShippingOptionID.Get(); ok {
		fields["shipping_option_id"] = v
	}
	if v, ok := in.ShippingAddressID.Get(); ok {
		fields["shipping_address_id"] = v
	}
	return s.nodes.Update(ctx, id, fields)
}

// RecomputeTotal обходит поддерево явной очередью (без рекурсии, глубина
// корзины не ограничена) и суммирует quantity*unit_price по всем листьям.
func (s *cartService) RecomputeTotal(ctx context.Context, nodeID uuid.UUID) (int64, error) {
	exists, err := s.nodes.Exists(ctx, nodeID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrCartNotFound
	}

	var total int64
	queue := []uuid.UUID{nodeID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := s.nodes.ChildNodes(ctx, current)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			queue = append(queue, child.ID)
		}

		leaves, err := s.leaves.ByNode(ctx, current)
		if err != nil {
			return 0, err
		}
		for _, leaf := range leaves {
			total += int64(leaf.Quantity) * leaf.UnitPriceCents
		}
	}

	if err := s.nodes.Update(ctx, nodeID, map[string]any{"total_cents": total}); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *cartService) CurrentSessionCartKey(ctx context.Context) (uuid.UUID, bool, error) {
	if s.sessions == nil {
		return uuid.Nil, false, nil
	}
	sessionID, ok := SessionIDFromContext(ctx)
	if !ok {
		return uuid.Nil, false, nil
	}
	return s.sessions.GetSessionCart(ctx, sessionID)
}

// DetachSessionCart разрывает привязку сессии к корзине, данные корзины не
// удаляются. Идемпотентен.
func (s *cartService) DetachSessionCart(ctx context.Context) error {
	if s.sessions == nil {
		return nil
	}
	sessionID, ok := SessionIDFromContext(ctx)
	if !ok {
		return nil
	}
	return s.sessions.DelSessionCart(ctx, sessionID)
}
