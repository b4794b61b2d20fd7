package service_test

import (
	"context"
	"sync"

	"checkout-service/internal/models"
	"checkout-service/internal/repository"

	"github.com/google/uuid"
)

// In-memory репозитории для юнит-тестов сервисного слоя.

type fakeNodeRepo struct {
	mu    sync.Mutex
	nodes []*models.CartNode
}

func (r *fakeNodeRepo) Create(_ context.Context, n *models.CartNode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	cp := *n
	r.nodes = append(r.nodes, &cp)
	return nil
}

func (r *fakeNodeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.CartNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.ID == id {
			cp := *n
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeNodeRepo) ChildNodes(_ context.Context, parentID uuid.UUID) ([]models.CartNode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CartNode
	for _, n := range r.nodes {
		if n.ParentID != nil && *n.ParentID == parentID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNodeRepo) Update(_ context.Context, id uuid.UUID, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.ID != id {
			continue
		}
		if v, ok := fields["name"]; ok {
			n.Name = v.(string)
		}
		if v, ok := fields["cart_type"]; ok {
			n.CartType = v.(models.CartType)
		}
		if v, ok := fields["shipping_option_id"]; ok {
			if v == nil {
				n.ShippingOptionID = nil
			} else {
				n.ShippingOptionID = v.(*uuid.UUID)
			}
		}
		if v, ok := fields["shipping_address_id"]; ok {
			if v == nil {
				n.ShippingAddressID = nil
			} else {
				n.ShippingAddressID = v.(*uuid.UUID)
			}
		}
		if v, ok := fields["total_cents"]; ok {
			n.TotalCents = v.(int64)
		}
	}
	return nil
}

func (r *fakeNodeRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.nodes {
		if n.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeLeafRepo struct {
	mu     sync.Mutex
	leaves []*models.CartLeaf
}

func (r *fakeLeafRepo) Create(_ context.Context, l *models.CartLeaf) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	r.leaves = append(r.leaves, &cp)
	return nil
}

func (r *fakeLeafRepo) GetByID(_ context.Context, id uuid.UUID) (*models.CartLeaf, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leaves {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeLeafRepo) ByNode(_ context.Context, nodeID uuid.UUID) ([]models.CartLeaf, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.CartLeaf
	for _, l := range r.leaves {
		if l.NodeID == nodeID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLeafRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.leaves {
		if l.ID == id {
			r.leaves = append(r.leaves[:i], r.leaves[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeArticleRepo struct {
	articles map[uuid.UUID]*models.Article
}

func (r *fakeArticleRepo) Create(_ context.Context, a *models.Article) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if r.articles == nil {
		r.articles = map[uuid.UUID]*models.Article{}
	}
	cp := *a
	r.articles[a.ID] = &cp
	return nil
}

func (r *fakeArticleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	a, ok := r.articles[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type fakeConfigRepo struct {
	configs map[uuid.UUID]*models.ShippingConfig
}

func (r *fakeConfigRepo) Create(_ context.Context, c *models.ShippingConfig) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	for i := range c.Options {
		if c.Options[i].ID == uuid.Nil {
			c.Options[i].ID = uuid.New()
		}
		c.Options[i].ConfigID = c.ID
	}
	if r.configs == nil {
		r.configs = map[uuid.UUID]*models.ShippingConfig{}
	}
	cp := *c
	r.configs[c.ID] = &cp
	return nil
}

func (r *fakeConfigRepo) GetByID(_ context.Context, id uuid.UUID) (*models.ShippingConfig, error) {
	c, ok := r.configs[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeAddressRepo struct {
	addresses map[uuid.UUID]*models.Address
}

func (r *fakeAddressRepo) Create(_ context.Context, a *models.Address) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if r.addresses == nil {
		r.addresses = map[uuid.UUID]*models.Address{}
	}
	cp := *a
	r.addresses[a.ID] = &cp
	return nil
}

func (r *fakeAddressRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	a, ok := r.addresses[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func (r *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if r.orders == nil {
		r.orders = map[uuid.UUID]*models.Order{}
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) SaveChecked(_ context.Context, o *models.Order) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[o.ID]
	if !ok || stored.Version != o.Version {
		return false, nil
	}
	o.Version++
	cp := *o
	r.orders[o.ID] = &cp
	return true, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) WithTx(ctx context.Context, fn func(tx repository.OrderRepo) error) error {
	return fn(r)
}

type fakeSessionStore struct {
	mu    sync.Mutex
	carts map[string]uuid.UUID
}

func (s *fakeSessionStore) SetSessionCart(_ context.Context, sessionID string, cartID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.carts == nil {
		s.carts = map[string]uuid.UUID{}
	}
	s.carts[sessionID] = cartID
	return nil
}

func (s *fakeSessionStore) GetSessionCart(_ context.Context, sessionID string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.carts[sessionID]
	return id, ok, nil
}

func (s *fakeSessionStore) DelSessionCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
