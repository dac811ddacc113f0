package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon validation failure messages, surfaced verbatim to the caller.
const (
	msgCouponNotFound     = "coupon not found"
	msgCouponInactive     = "coupon is not active"
	msgCouponNotStarted   = "coupon is not yet valid"
	msgCouponExpired      = "coupon has expired"
	msgCouponExhausted    = "coupon usage limit reached"
	msgCouponMinimumOrder = "order total does not meet the coupon minimum"
	msgCouponUserLimit    = "you have reached the usage limit for this coupon"
)

type CouponService interface {
	// Validate is side-effect-free: it never touches usage counters, so
	// preview calls are idempotent.
	Validate(ctx context.Context, code string, cartTotal decimal.Decimal, userID *uint) (*dto.CouponResult, error)

	// Evaluate is Validate plus the coupon row, for callers (checkout) that
	// go on to redeem.
	Evaluate(ctx context.Context, code string, cartTotal decimal.Decimal, userID *uint) (*model.Coupon, *dto.CouponResult, error)

	// Redeem records a usage row and bumps uses_count; it runs inside the
	// checkout transaction so a rolled-back order never consumes a use.
	Redeem(ctx context.Context, tx *gorm.DB, coupon *model.Coupon, userID *uint, orderID uint, discount decimal.Decimal) error

	List(ctx context.Context) ([]*model.Coupon, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uint) error
}

type couponServiceImpl struct {
	couponRepo repository.CouponRepository
}

func NewCouponService(couponRepo repository.CouponRepository) CouponService {
	return &couponServiceImpl{couponRepo: couponRepo}
}

func invalidCoupon(message string) *dto.CouponResult {
	return &dto.CouponResult{Valid: false, Message: message, Discount: decimal.Zero}
}

func (s *couponServiceImpl) Validate(ctx context.Context, code string, cartTotal decimal.Decimal, userID *uint) (*dto.CouponResult, error) {
	_, result, err := s.Evaluate(ctx, code, cartTotal, userID)
	return result, err
}

func (s *couponServiceImpl) Evaluate(ctx context.Context, code string, cartTotal decimal.Decimal, userID *uint) (*model.Coupon, *dto.CouponResult, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCoupon(msgCouponNotFound), nil
		}
		return nil, nil, fmt.Errorf("find coupon: %w", err)
	}

	now := time.Now()
	switch {
	case !coupon.IsActive():
		return nil, invalidCoupon(msgCouponInactive), nil
	case !coupon.HasStarted(now):
		return nil, invalidCoupon(msgCouponNotStarted), nil
	case coupon.IsExpired(now):
		return nil, invalidCoupon(msgCouponExpired), nil
	case coupon.HasReachedMaxUsage():
		return nil, invalidCoupon(msgCouponExhausted), nil
	case !coupon.MeetsMinimumOrder(cartTotal):
		return nil, invalidCoupon(msgCouponMinimumOrder), nil
	}

	if userID != nil && coupon.PerUserLimit > 0 {
		used, err := s.couponRepo.CountUsageByUser(ctx, coupon.ID, *userID)
		if err != nil {
			return nil, nil, fmt.Errorf("count coupon usage: %w", err)
		}
		if used >= int64(coupon.PerUserLimit) {
			return nil, invalidCoupon(msgCouponUserLimit), nil
		}
	}

	discount, freeShipping := coupon.CalculateDiscount(cartTotal)
	return coupon, &dto.CouponResult{
		Valid:        true,
		Discount:     discount,
		FreeShipping: freeShipping,
	}, nil
}

func (s *couponServiceImpl) Redeem(ctx context.Context, tx *gorm.DB, coupon *model.Coupon, userID *uint, orderID uint, discount decimal.Decimal) error {
	if err := s.couponRepo.IncrementUsage(ctx, tx, coupon.ID); err != nil {
		return err
	}

	return s.couponRepo.RecordUsage(ctx, tx, &model.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         userID,
		OrderID:        orderID,
		DiscountAmount: discount,
		UsedAt:         time.Now(),
	})
}

func (s *couponServiceImpl) List(ctx context.Context) ([]*model.Coupon, error) {
	return s.couponRepo.List(ctx)
}

func (s *couponServiceImpl) Create(ctx context.Context, coupon *model.Coupon) error {
	return s.couponRepo.Create(ctx, coupon)
}

func (s *couponServiceImpl) Update(ctx context.Context, coupon *model.Coupon) error {
	return s.couponRepo.Update(ctx, coupon)
}

func (s *couponServiceImpl) Delete(ctx context.Context, id uint) error {
	return s.couponRepo.Delete(ctx, id)
}
