package repository

import (
	"context"
	"errors"

	"checkout-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ArticleRepo interface {
	Create(ctx context.Context, a *models.Article) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
}

type articleRepo struct{ db *gorm.DB }

func NewArticleRepo(db *gorm.DB) ArticleRepo { return &articleRepo{db: db} }

func (r *articleRepo) Create(ctx context.Context, a *models.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *articleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var art models.Article
	err := r.db.WithContext(ctx).First(&art, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &art, err
}
