package repository

import (
	"context"

	"dairymart/internal/model"

	"gorm.io/gorm"
)

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]*model.Coupon, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uint) error

	CountUsageByUser(ctx context.Context, couponID, userID uint) (int64, error)

	// IncrementUsage atomically bumps uses_count, guarded by max_uses so a
	// capped coupon can never be over-redeemed under concurrent checkouts.
	IncrementUsage(ctx context.Context, tx *gorm.DB, couponID uint) error
	RecordUsage(ctx context.Context, tx *gorm.DB, usage *model.CouponUsage) error
}

type couponRepoImpl struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepoImpl{db: db}
}

func (r *couponRepoImpl) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ?", model.NormalizeCouponCode(code)).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (r *couponRepoImpl) List(ctx context.Context) ([]*model.Coupon, error) {
	var coupons []*model.Coupon
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&coupons).Error
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

func (r *couponRepoImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = model.NormalizeCouponCode(coupon.Code)
	return r.db.WithContext(ctx).Create(coupon).Error
}

func (r *couponRepoImpl) Update(ctx context.Context, coupon *model.Coupon) error {
	coupon.Code = model.NormalizeCouponCode(coupon.Code)
	return r.db.WithContext(ctx).Save(coupon).Error
}

func (r *couponRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Coupon{}, id).Error
}

func (r *couponRepoImpl) CountUsageByUser(ctx context.Context, couponID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CouponUsage{}).
		Where("coupon_id = ? AND user_id = ?", couponID, userID).
		Count(&count).Error
	return count, err
}

func (r *couponRepoImpl) IncrementUsage(ctx context.Context, tx *gorm.DB, couponID uint) error {
	res := tx.WithContext(ctx).Model(&model.Coupon{}).
		Where("id = ? AND (max_uses IS NULL OR uses_count < max_uses)", couponID).
		UpdateColumn("uses_count", gorm.Expr("uses_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

func (r *couponRepoImpl) RecordUsage(ctx context.Context, tx *gorm.DB, usage *model.CouponUsage) error {
	return tx.WithContext(ctx).Create(usage).Error
}
