package service

import (
	"context"
	"testing"
	"time"

	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCoupon(t *testing.T, db *gorm.DB, coupon *model.Coupon) *model.Coupon {
	t.Helper()
	if coupon.Status == "" {
		coupon.Status = model.CouponStatusActive
	}
	require.NoError(t, db.Create(coupon).Error)
	return coupon
}

func TestCouponValidateNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	result, err := svc.Validate(context.Background(), "NOPE", dec("500"), nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, msgCouponNotFound, result.Message)
	assert.True(t, result.Discount.IsZero())
}

func TestCouponValidateCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))
	seedCoupon(t, db, &model.Coupon{Code: "DAIRY10", Type: model.CouponTypePercentage, Value: dec("10")})

	result, err := svc.Validate(context.Background(), "  dairy10 ", dec("400"), nil)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.True(t, dec("40.00").Equal(result.Discount))
}

func TestCouponValidateInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))
	seedCoupon(t, db, &model.Coupon{Code: "OFF", Type: model.CouponTypeFixed, Value: dec("50"), Status: model.CouponStatusInactive})

	result, err := svc.Validate(context.Background(), "OFF", dec("500"), nil)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, msgCouponInactive, result.Message)
}

func TestCouponValidateTimeWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	future := time.Now().Add(time.Hour)
	seedCoupon(t, db, &model.Coupon{Code: "SOON", Type: model.CouponTypeFixed, Value: dec("50"), StartsAt: &future})

	past := time.Now().Add(-time.Hour)
	seedCoupon(t, db, &model.Coupon{Code: "GONE", Type: model.CouponTypeFixed, Value: dec("50"), ExpiresAt: &past})

	result, err := svc.Validate(context.Background(), "SOON", dec("500"), nil)
	require.NoError(t, err)
	assert.Equal(t, msgCouponNotStarted, result.Message)

	result, err = svc.Validate(context.Background(), "GONE", dec("500"), nil)
	require.NoError(t, err)
	assert.Equal(t, msgCouponExpired, result.Message)
}

func TestCouponValidateMinimumOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))
	seedCoupon(t, db, &model.Coupon{Code: "BIG", Type: model.CouponTypeFixed, Value: dec("100"), MinOrderAmount: dec("500")})

	result, err := svc.Validate(context.Background(), "BIG", dec("499.99"), nil)
	require.NoError(t, err)
	assert.Equal(t, msgCouponMinimumOrder, result.Message)

	result, err = svc.Validate(context.Background(), "BIG", dec("500"), nil)
	require.NoError(t, err)
	assert.True(t, result.Valid, "exact minimum qualifies")
}

func TestCouponValidateMaxUsage(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))

	maxUses := 3
	seedCoupon(t, db, &model.Coupon{Code: "CAP", Type: model.CouponTypeFixed, Value: dec("50"), MaxUses: &maxUses, UsesCount: 3})

	result, err := svc.Validate(context.Background(), "CAP", dec("500"), nil)
	require.NoError(t, err)
	assert.Equal(t, msgCouponExhausted, result.Message)
}

func TestCouponValidatePerUserLimit(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCouponRepository(db)
	svc := NewCouponService(repo)
	user := seedUser(t, db, "limit@test.com")

	coupon := seedCoupon(t, db, &model.Coupon{Code: "ONCE", Type: model.CouponTypeFixed, Value: dec("50"), PerUserLimit: 1})

	result, err := svc.Validate(context.Background(), "ONCE", dec("500"), &user.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	require.NoError(t, db.Create(&model.CouponUsage{
		CouponID: coupon.ID,
		UserID:   &user.ID,
		OrderID:  1,
		UsedAt:   time.Now(),
	}).Error)

	result, err = svc.Validate(context.Background(), "ONCE", dec("500"), &user.ID)
	require.NoError(t, err)
	assert.Equal(t, msgCouponUserLimit, result.Message)

	// Another user is unaffected.
	other := seedUser(t, db, "other@test.com")
	result, err = svc.Validate(context.Background(), "ONCE", dec("500"), &other.ID)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestCouponValidateIsSideEffectFree(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(repository.NewCouponRepository(db))
	coupon := seedCoupon(t, db, &model.Coupon{Code: "PURE", Type: model.CouponTypeFixed, Value: dec("50")})

	for i := 0; i < 5; i++ {
		result, err := svc.Validate(context.Background(), "PURE", dec("500"), nil)
		require.NoError(t, err)
		require.True(t, result.Valid)
	}

	var reloaded model.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 0, reloaded.UsesCount, "validation must not consume uses")
}

func TestCouponRedeemBumpsUsage(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCouponRepository(db)
	svc := NewCouponService(repo)
	user := seedUser(t, db, "redeem@test.com")
	coupon := seedCoupon(t, db, &model.Coupon{Code: "USE", Type: model.CouponTypeFixed, Value: dec("50")})

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, coupon, &user.ID, 42, dec("50"))
	})
	require.NoError(t, err)

	var reloaded model.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.UsesCount)

	var usages int64
	require.NoError(t, db.Model(&model.CouponUsage{}).Where("coupon_id = ?", coupon.ID).Count(&usages).Error)
	assert.Equal(t, int64(1), usages)
}

func TestCouponRedeemExhaustedFails(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCouponRepository(db)
	svc := NewCouponService(repo)

	maxUses := 1
	coupon := seedCoupon(t, db, &model.Coupon{Code: "LAST", Type: model.CouponTypeFixed, Value: dec("50"), MaxUses: &maxUses, UsesCount: 1})

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Redeem(context.Background(), tx, coupon, nil, 42, dec("50"))
	})
	assert.ErrorIs(t, err, repository.ErrCouponExhausted)
}
