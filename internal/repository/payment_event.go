package repository

import (
	"context"
	"time"

	"dairymart/internal/model"

	"gorm.io/gorm"
)

type PaymentEventRepository interface {
	Exists(ctx context.Context, refID string) (bool, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, refID, orderNumber, gateway string) error
}

type paymentEventRepoImpl struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepoImpl{db: db}
}

func (r *paymentEventRepoImpl) Exists(ctx context.Context, refID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentEvent{}).
		Where("ref_id = ?", refID).
		Count(&count).Error
	return count > 0, err
}

func (r *paymentEventRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, refID, orderNumber, gateway string) error {
	return tx.WithContext(ctx).Create(&model.PaymentEvent{
		RefID:       refID,
		OrderNumber: orderNumber,
		Gateway:     gateway,
		ProcessedAt: time.Now(),
	}).Error
}
