package repository

import (
	"context"
	"errors"

	"checkout-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShippingConfigRepo interface {
	Create(ctx context.Context, c *models.ShippingConfig) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ShippingConfig, error)
}

type shippingConfigRepo struct{ db *gorm.DB }

func NewShippingConfigRepo(db *gorm.DB) ShippingConfigRepo { return &shippingConfigRepo{db: db} }

func (r *shippingConfigRepo) Create(ctx context.Context, c *models.ShippingConfig) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *shippingConfigRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ShippingConfig, error) {
	var cfg models.ShippingConfig
	err := r.db.WithContext(ctx).Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&cfg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &cfg, err
}
