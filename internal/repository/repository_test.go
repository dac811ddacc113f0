package repository

import (
	"context"
	"testing"

	"dairymart/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.ProductVariant{},
		&model.Order{},
		&model.OrderItem{},
		&model.Coupon{},
		&model.CouponUsage{},
		&model.StockMovement{},
		&model.PaymentEvent{},
	))

	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:       "Whole Milk",
		Slug:       "whole-milk",
		CategoryID: 1,
		Price:      dec("120.00"),
		Stock:      stock,
		Status:     model.ProductStatusActive,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestReduceStockReturnsBeforeAfter(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 10)

	before, after, err := repo.ReduceStock(context.Background(), db, product.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, before)
	assert.Equal(t, 7, after)
}

func TestReduceStockGuardsAgainstOversell(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 2)

	_, _, err := repo.ReduceStock(context.Background(), db, product.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 2, reloaded.Stock, "a failed decrement leaves stock untouched")

	// Draining to exactly zero is allowed.
	before, after, err := repo.ReduceStock(context.Background(), db, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, before)
	assert.Equal(t, 0, after)
}

func TestIncreaseStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	product := seedProduct(t, db, 5)

	before, after, err := repo.IncreaseStock(context.Background(), db, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, before)
	assert.Equal(t, 9, after)

	_, _, err = repo.IncreaseStock(context.Background(), db, 9999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func seedOrder(t *testing.T, db *gorm.DB, status model.OrderStatus, payment model.PaymentStatus) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber:     "DM-REPO00000001",
		Status:          status,
		PaymentStatus:   payment,
		PaymentMethod:   model.PaymentMethodCOD,
		Subtotal:        dec("100.00"),
		ShippingCost:    dec("0"),
		Discount:        dec("0"),
		Total:           dec("100.00"),
		ShippingName:    "Test",
		ShippingEmail:   "t@test.com",
		ShippingPhone:   "9800000000",
		ShippingAddress: "Street",
		ShippingCity:    "City",
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrderUpdateStatusGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	order := seedOrder(t, db, model.OrderStatusPending, model.PaymentStatusPending)

	err := repo.UpdateStatus(context.Background(), db, order.ID, model.OrderStatusPending, model.OrderStatusProcessing)
	require.NoError(t, err)

	// The guard compares against the expected current status; a stale
	// expectation loses.
	err = repo.UpdateStatus(context.Background(), db, order.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrStatusConflict)

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.OrderStatusProcessing, reloaded.Status)
}

func TestOrderUpdatePaymentStatusGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)
	order := seedOrder(t, db, model.OrderStatusPending, model.PaymentStatusPending)

	txnID := "REF1"
	err := repo.UpdatePaymentStatus(context.Background(), db, order.ID, model.PaymentStatusPending, model.PaymentStatusPaid, &txnID)
	require.NoError(t, err)

	err = repo.UpdatePaymentStatus(context.Background(), db, order.ID, model.PaymentStatusPending, model.PaymentStatusFailed, nil)
	assert.ErrorIs(t, err, ErrStatusConflict)

	var reloaded model.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.PaymentStatusPaid, reloaded.PaymentStatus)
	require.NotNil(t, reloaded.TransactionID)
	assert.Equal(t, "REF1", *reloaded.TransactionID)
}

func TestCouponIncrementUsageGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)

	maxUses := 2
	coupon := &model.Coupon{
		Code:    "TWICE",
		Type:    model.CouponTypeFixed,
		Value:   dec("10"),
		MaxUses: &maxUses,
		Status:  model.CouponStatusActive,
	}
	require.NoError(t, db.Create(coupon).Error)

	require.NoError(t, repo.IncrementUsage(context.Background(), db, coupon.ID))
	require.NoError(t, repo.IncrementUsage(context.Background(), db, coupon.ID))

	err := repo.IncrementUsage(context.Background(), db, coupon.ID)
	assert.ErrorIs(t, err, ErrCouponExhausted)

	var reloaded model.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 2, reloaded.UsesCount, "the counter never exceeds max_uses")
}

func TestCouponIncrementUsageUnlimited(t *testing.T) {
	db := newTestDB(t)
	repo := NewCouponRepository(db)

	coupon := &model.Coupon{
		Code:   "FOREVER",
		Type:   model.CouponTypeFixed,
		Value:  dec("10"),
		Status: model.CouponStatusActive,
	}
	require.NoError(t, db.Create(coupon).Error)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.IncrementUsage(context.Background(), db, coupon.ID))
	}

	var reloaded model.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 5, reloaded.UsesCount)
}

func TestPaymentEventIdempotency(t *testing.T) {
	db := newTestDB(t)
	repo := NewPaymentEventRepository(db)

	exists, err := repo.Exists(context.Background(), "REF1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.MarkProcessed(context.Background(), db, "REF1", "DM-X", "esewa"))

	exists, err = repo.Exists(context.Background(), "REF1")
	require.NoError(t, err)
	assert.True(t, exists)

	// The unique index rejects a second row for the same reference.
	err = repo.MarkProcessed(context.Background(), db, "REF1", "DM-X", "esewa")
	assert.Error(t, err)
}
