package service

import (
	"context"
	"testing"

	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCartEnv(t *testing.T) (*gorm.DB, CartService) {
	t.Helper()
	db := newTestDB(t)
	seedCategory(t, db)

	couponService := NewCouponService(repository.NewCouponRepository(db))
	cartService := NewCartService(newMemCartStore(), repository.NewProductRepository(db), couponService)
	return db, cartService
}

func TestCartGetEmptyForUnknownToken(t *testing.T) {
	_, svc := newCartEnv(t)

	view, err := svc.Get(context.Background(), "fresh-token", nil)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
}

func TestCartAddItemMergesQuantity(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "milk-1l", "120.00", 10)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)
	assert.True(t, dec("600.00").Equal(view.Subtotal))
}

func TestCartAddItemRespectsStock(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "butter-250g", "300.00", 4)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	// 3 + 2 would exceed the 4 in stock.
	_, err = svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	var berr *BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 400, berr.Status)
}

func TestCartAddInactiveProduct(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "retired", "100.00", 10)
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", product.ID).Update("status", model.ProductStatusInactive).Error)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	var berr *BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 400, berr.Status)
}

func TestCartUpdateItemToZeroRemovesLine(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "yogurt-cup", "60.00", 10)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	view, err := svc.UpdateItem(context.Background(), "tok", nil, dto.UpdateCartItemRequest{ProductID: product.ID, Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartRemoveItem(t *testing.T) {
	db, svc := newCartEnv(t)
	a := seedProduct(t, db, "cheese-a", "500.00", 10)
	b := seedProduct(t, db, "cheese-b", "550.00", 10)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: a.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)

	view, err := svc.RemoveItem(context.Background(), "tok", nil, a.ID, nil)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, b.ID, view.Items[0].ProductID)
}

func TestCartSalePriceUsedInSubtotal(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "on-sale", "200.00", 10)
	sale := dec("150.00")
	require.NoError(t, db.Model(&model.Product{}).Where("id = ?", product.ID).Update("sale_price", sale).Error)

	view, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, dec("300.00").Equal(view.Subtotal), "subtotal uses the sale price, got %s", view.Subtotal)
}

func TestCartApplyAndRemoveCoupon(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "gift-set", "1000.00", 10)
	require.NoError(t, db.Create(&model.Coupon{
		Code:   "TENOFF",
		Type:   model.CouponTypePercentage,
		Value:  dec("10"),
		Status: model.CouponStatusActive,
	}).Error)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	view, result, err := svc.ApplyCoupon(context.Background(), "tok", nil, "tenoff")
	require.NoError(t, err)
	require.True(t, result.Valid)
	assert.Equal(t, "TENOFF", view.CouponCode)
	assert.True(t, dec("100.00").Equal(view.Discount))

	view, err = svc.RemoveCoupon(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Empty(t, view.CouponCode)
	assert.True(t, view.Discount.IsZero())
}

func TestCartInvalidCouponNotStored(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "basics", "100.00", 10)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, result, err := svc.ApplyCoupon(context.Background(), "tok", nil, "BOGUS")
	require.NoError(t, err)
	assert.False(t, result.Valid)

	view, err := svc.Get(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Empty(t, view.CouponCode)
}

func TestCartStaleCouponDroppedFromView(t *testing.T) {
	db, svc := newCartEnv(t)
	product := seedProduct(t, db, "seasonal", "400.00", 10)
	require.NoError(t, db.Create(&model.Coupon{
		Code:   "SEASON",
		Type:   model.CouponTypeFixed,
		Value:  dec("50"),
		Status: model.CouponStatusActive,
	}).Error)

	_, err := svc.AddItem(context.Background(), "tok", nil, dto.AddToCartRequest{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	_, result, err := svc.ApplyCoupon(context.Background(), "tok", nil, "SEASON")
	require.NoError(t, err)
	require.True(t, result.Valid)

	// The coupon is deactivated after it was applied.
	require.NoError(t, db.Model(&model.Coupon{}).Where("code = ?", "SEASON").Update("status", model.CouponStatusInactive).Error)

	view, err := svc.Get(context.Background(), "tok", nil)
	require.NoError(t, err)
	assert.Empty(t, view.CouponCode, "a no-longer-valid coupon contributes nothing")
	assert.True(t, view.Discount.IsZero())
}
