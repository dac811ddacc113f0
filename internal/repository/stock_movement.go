package repository

import (
	"context"

	"dairymart/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Record(ctx context.Context, tx *gorm.DB, movement *model.StockMovement) error
	ListByProduct(ctx context.Context, productID uint) ([]*model.StockMovement, error)
	LatestForProduct(ctx context.Context, productID uint) (*model.StockMovement, error)
}

type stockMovementRepoImpl struct {
	db *gorm.DB
}

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepoImpl{db: db}
}

func (r *stockMovementRepoImpl) Record(ctx context.Context, tx *gorm.DB, movement *model.StockMovement) error {
	return tx.WithContext(ctx).Create(movement).Error
}

func (r *stockMovementRepoImpl) ListByProduct(ctx context.Context, productID uint) ([]*model.StockMovement, error) {
	var movements []*model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *stockMovementRepoImpl) LatestForProduct(ctx context.Context, productID uint) (*model.StockMovement, error) {
	var movement model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id DESC").
		First(&movement).Error
	if err != nil {
		return nil, err
	}
	return &movement, nil
}
