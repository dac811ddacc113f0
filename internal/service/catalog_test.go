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

func newCatalogService(t *testing.T) (*gorm.DB, CatalogService) {
	t.Helper()
	db := newTestDB(t)
	seedCategory(t, db)

	svc := NewCatalogService(
		db,
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewReviewRepository(db),
		repository.NewStockMovementRepository(db),
	)
	return db, svc
}

func TestUpdateProductPreservesStock(t *testing.T) {
	db, svc := newCatalogService(t)
	product := seedProduct(t, db, "hard-cheese", "800.00", 12)

	updated, err := svc.UpdateProduct(context.Background(), product.ID, dto.ProductRequest{
		Name:       "Aged Cheese",
		Slug:       "hard-cheese",
		CategoryID: 1,
		Price:      dec("850.00"),
		Stock:      999, // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, "Aged Cheese", updated.Name)
	assert.Equal(t, 12, updated.Stock, "stock only moves through AdjustStock")

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 12, reloaded.Stock)
}

func TestAdjustStockWritesLedger(t *testing.T) {
	db, svc := newCatalogService(t)
	product := seedProduct(t, db, "fresh-curd", "90.00", 10)
	adminID := uint(7)

	require.NoError(t, svc.AdjustStock(context.Background(), product.ID, 5, "restock delivery", adminID))
	require.NoError(t, svc.AdjustStock(context.Background(), product.ID, -2, "damaged units", adminID))

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 13, reloaded.Stock)

	movements, err := svc.StockLedger(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	// Ledger is newest first.
	assert.Equal(t, model.MovementAdjustment, movements[0].Type)
	assert.Equal(t, 2, movements[0].Quantity)
	assert.Equal(t, 15, movements[0].StockBefore)
	assert.Equal(t, 13, movements[0].StockAfter)
	require.NotNil(t, movements[0].CreatedBy)
	assert.Equal(t, adminID, *movements[0].CreatedBy)

	assert.Equal(t, 10, movements[1].StockBefore)
	assert.Equal(t, 15, movements[1].StockAfter)
}

func TestAdjustStockRejectsZeroAndUnderflow(t *testing.T) {
	db, svc := newCatalogService(t)
	product := seedProduct(t, db, "soft-cheese", "400.00", 3)

	err := svc.AdjustStock(context.Background(), product.ID, 0, "", 1)
	var berr *BusinessError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 400, berr.Status)

	err = svc.AdjustStock(context.Background(), product.ID, -5, "", 1)
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, 400, berr.Status)

	var reloaded model.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 3, reloaded.Stock)

	movements, lerr := svc.StockLedger(context.Background(), product.ID)
	require.NoError(t, lerr)
	assert.Empty(t, movements, "rejected adjustments leave no ledger rows")
}

func TestLowStockListing(t *testing.T) {
	db, svc := newCatalogService(t)
	low := seedProduct(t, db, "nearly-out", "100.00", 2)
	seedProduct(t, db, "well-stocked", "100.00", 50)

	products, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}

func TestGetProductIncludesRatingSummary(t *testing.T) {
	db, svc := newCatalogService(t)
	product := seedProduct(t, db, "rated", "150.00", 10)
	user := seedUser(t, db, "reviewer@test.com")
	other := seedUser(t, db, "reviewer2@test.com")

	require.NoError(t, db.Create(&model.Review{ProductID: product.ID, UserID: user.ID, Rating: 5}).Error)
	require.NoError(t, db.Create(&model.Review{ProductID: product.ID, UserID: other.ID, Rating: 4}).Error)

	detail, err := svc.GetProduct(context.Background(), "rated")
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ReviewCount)
	assert.InDelta(t, 4.5, detail.AvgRating, 0.001)
}
