package repository

import (
	"context"
	"errors"

	"checkout-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// SaveChecked persists the order only if the stored version matches
	// o.Version; on success the version is bumped. Returns false when a
	// concurrent writer got there first.
	SaveChecked(ctx context.Context, o *models.Order) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error)

	WithTx(ctx context.Context, fn func(tx OrderRepo) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ord, err
}

func (r *orderRepo) SaveChecked(ctx context.Context, o *models.Order) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]any{
			"total_cents":        o.TotalCents,
			"payment_provider":   o.PaymentProvider,
			"billing_address_id": o.BillingAddressID,
			"customer_id":        o.CustomerID,
			"email":              o.Email,
			"state_ordered":      o.StateOrdered,
			"state_paid":         o.StatePaid,
			"state_rts":          o.StateRTS,
			"is_ordered":         o.IsOrdered,
			"order_uid":          o.OrderUID,
			"version":            o.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	o.Version++
	return true, nil
}

func (r *orderRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("customer_id = ?", customerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var list []models.Order
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, total, err
}

func (r *orderRepo) WithTx(ctx context.Context, fn func(tx OrderRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&orderRepo{db: tx})
	})
}
