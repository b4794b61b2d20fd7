package repository

import (
	"context"
	"errors"

	"checkout-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressRepo interface {
	Create(ctx context.Context, a *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
}

type addressRepo struct{ db *gorm.DB }

func NewAddressRepo(db *gorm.DB) AddressRepo { return &addressRepo{db: db} }

func (r *addressRepo) Create(ctx context.Context, a *models.Address) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := r.db.WithContext(ctx).First(&addr, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &addr, err
}
