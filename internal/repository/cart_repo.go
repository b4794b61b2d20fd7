package repository

import (
	"context"
	"errors"

	"checkout-service/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartNodeRepo interface {
	Create(ctx context.Context, n *models.CartNode) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CartNode, error)
	ChildNodes(ctx context.Context, parentID uuid.UUID) ([]models.CartNode, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type cartNodeRepo struct{ db *gorm.DB }

func NewCartNodeRepo(db *gorm.DB) CartNodeRepo { return &cartNodeRepo{db: db} }

func (r *cartNodeRepo) Create(ctx context.Context, n *models.CartNode) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *cartNodeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CartNode, error) {
	var node models.CartNode
	err := r.db.WithContext(ctx).First(&node, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &node, err
}

func (r *cartNodeRepo) ChildNodes(ctx context.Context, parentID uuid.UUID) ([]models.CartNode, error) {
	var nodes []models.CartNode
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&nodes).Error
	return nodes, err
}

func (r *cartNodeRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.CartNode{}).Where("id = ?", id).Updates(fields).Error
}

func (r *cartNodeRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.CartNode{}).Where("id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}

type CartLeafRepo interface {
	Create(ctx context.Context, l *models.CartLeaf) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CartLeaf, error)
	ByNode(ctx context.Context, nodeID uuid.UUID) ([]models.CartLeaf, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type cartLeafRepo struct{ db *gorm.DB }

func NewCartLeafRepo(db *gorm.DB) CartLeafRepo { return &cartLeafRepo{db: db} }

func (r *cartLeafRepo) Create(ctx context.Context, l *models.CartLeaf) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *cartLeafRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.CartLeaf, error) {
	var leaf models.CartLeaf
	err := r.db.WithContext(ctx).First(&leaf, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &leaf, err
}

func (r *cartLeafRepo) ByNode(ctx context.Context, nodeID uuid.UUID) ([]models.CartLeaf, error) {
	var leaves []models.CartLeaf
	err := r.db.WithContext(ctx).
		Where("node_id = ?", nodeID).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *cartLeafRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.CartLeaf{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}
