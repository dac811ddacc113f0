package service

import (
	"context"
	"errors"
	"fmt"

	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"gorm.io/gorm"
)

type ProductDetail struct {
	Product     *model.Product `json:"product"`
	AvgRating   float64        `json:"avg_rating"`
	ReviewCount int64          `json:"review_count"`
}

type CatalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, int64, error)
	GetProduct(ctx context.Context, slug string) (*ProductDetail, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)

	CreateProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, req dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	CreateCategory(ctx context.Context, req dto.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uint) error

	// AdjustStock applies an admin delta through the guarded mutators and
	// appends the matching adjustment ledger row.
	AdjustStock(ctx context.Context, productID uint, delta int, notes string, adminID uint) error
	LowStock(ctx context.Context) ([]*model.Product, error)
	StockLedger(ctx context.Context, productID uint) ([]*model.StockMovement, error)
}

type catalogServiceImpl struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
	movementRepo repository.StockMovementRepository
}

func NewCatalogService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	reviewRepo repository.ReviewRepository,
	movementRepo repository.StockMovementRepository,
) CatalogService {
	return &catalogServiceImpl{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
		movementRepo: movementRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*model.Product, int64, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	avg, count, err := s.reviewRepo.RatingSummary(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}

	return &ProductDetail{Product: product, AvgRating: avg, ReviewCount: count}, nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req dto.ProductRequest) (*model.Product, error) {
	product := productFromRequest(&model.Product{}, req)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, id uint, req dto.ProductRequest) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product not found")
		}
		return nil, err
	}

	// Stock is deliberately not settable here; it only moves through
	// AdjustStock so every change lands in the ledger.
	stock := product.Stock
	product = productFromRequest(product, req)
	product.Stock = stock

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func productFromRequest(product *model.Product, req dto.ProductRequest) *model.Product {
	product.Name = req.Name
	product.Slug = req.Slug
	product.Description = req.Description
	product.Unit = req.Unit
	product.CategoryID = req.CategoryID
	product.Price = req.Price
	product.SalePrice = req.SalePrice
	product.LowStockThreshold = req.LowStockThreshold
	product.Featured = req.Featured
	if product.ID == 0 {
		product.Stock = req.Stock
	}
	product.Status = req.Status
	if product.Status == "" {
		product.Status = model.ProductStatusActive
	}
	return product
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, id uint) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, Slug: req.Slug, Status: req.Status}
	if category.Status == "" {
		category.Status = model.ProductStatusActive
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*model.Category, error) {
	category := &model.Category{ID: id, Name: req.Name, Slug: req.Slug, Status: req.Status}
	if category.Status == "" {
		category.Status = model.ProductStatusActive
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *catalogServiceImpl) DeleteCategory(ctx context.Context, id uint) error {
	return s.categoryRepo.Delete(ctx, id)
}

func (s *catalogServiceImpl) AdjustStock(ctx context.Context, productID uint, delta int, notes string, adminID uint) error {
	if delta == 0 {
		return badRequest("stock adjustment delta must not be zero")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before, after int
		var err error
		if delta > 0 {
			before, after, err = s.productRepo.IncreaseStock(ctx, tx, productID, delta)
		} else {
			before, after, err = s.productRepo.ReduceStock(ctx, tx, productID, -delta)
		}
		if err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return badRequest("adjustment would take stock below zero")
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product not found")
			}
			return err
		}

		qty := delta
		if qty < 0 {
			qty = -qty
		}
		return s.movementRepo.Record(ctx, tx, &model.StockMovement{
			ProductID:     productID,
			Type:          model.MovementAdjustment,
			Quantity:      qty,
			StockBefore:   before,
			StockAfter:    after,
			ReferenceType: model.MovementRefAdjustment,
			Notes:         notes,
			CreatedBy:     &adminID,
		})
	})
}

func (s *catalogServiceImpl) LowStock(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.LowStock(ctx)
}

func (s *catalogServiceImpl) StockLedger(ctx context.Context, productID uint) ([]*model.StockMovement, error) {
	return s.movementRepo.ListByProduct(ctx, productID)
}
