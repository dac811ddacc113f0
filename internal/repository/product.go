package repository

import (
	"context"

	"dairymart/internal/model"

	"gorm.io/gorm"
)

type ProductFilter struct {
	CategoryID uint
	Search     string
	Featured   bool
	Page       int
	PerPage    int
}

type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindMany(ctx context.Context, ids []uint) ([]*model.Product, error)
	FindVariant(ctx context.Context, variantID uint) (*model.ProductVariant, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	LowStock(ctx context.Context) ([]*model.Product, error)

	// ReduceStock and IncreaseStock are the only stock mutators. ReduceStock
	// is an atomic conditional decrement: it fails with ErrInsufficientStock
	// instead of ever letting stock go negative. Both return the before and
	// after quantities for the movement ledger.
	ReduceStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (before, after int, err error)
	IncreaseStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (before, after int, err error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) List(ctx context.Context, filter ProductFilter) ([]*model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductStatusActive)

	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		q = q.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.Featured {
		q = q.Where("featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	perPage := filter.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	var products []*model.Product
	err := q.Preload("Variants").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Variants").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepoImpl) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, ids []uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).Preload("Variants").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepoImpl) FindVariant(ctx context.Context, variantID uint) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	err := r.db.WithContext(ctx).First(&variant, variantID).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

func (r *productRepoImpl) LowStock(ctx context.Context) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("status = ?", model.ProductStatusActive).
		Where("stock <= low_stock_threshold").
		Order("stock ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepoImpl) ReduceStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (int, int, error) {
	res := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return 0, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, 0, ErrInsufficientStock
	}

	after, err := r.currentStock(ctx, tx, productID)
	if err != nil {
		return 0, 0, err
	}
	return after + qty, after, nil
}

func (r *productRepoImpl) IncreaseStock(ctx context.Context, tx *gorm.DB, productID uint, qty int) (int, int, error) {
	res := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return 0, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, 0, gorm.ErrRecordNotFound
	}

	after, err := r.currentStock(ctx, tx, productID)
	if err != nil {
		return 0, 0, err
	}
	return after - qty, after, nil
}

// currentStock reads stock inside the same transaction, after the row has
// been locked by the preceding UPDATE.
func (r *productRepoImpl) currentStock(ctx context.Context, tx *gorm.DB, productID uint) (int, error) {
	var stock int
	err := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Pluck("stock", &stock).Error
	return stock, err
}
