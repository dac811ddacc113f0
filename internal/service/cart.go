package service

import (
	"context"
	"errors"
	"fmt"

	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	Get(ctx context.Context, token string, userID *uint) (*dto.CartView, error)
	AddItem(ctx context.Context, token string, userID *uint, req dto.AddToCartRequest) (*dto.CartView, error)
	UpdateItem(ctx context.Context, token string, userID *uint, req dto.UpdateCartItemRequest) (*dto.CartView, error)
	RemoveItem(ctx context.Context, token string, userID *uint, productID uint, variantID *uint) (*dto.CartView, error)
	Clear(ctx context.Context, token string) error

	// ApplyCoupon stores only the code; the discount is recomputed on every
	// read and again at checkout, never trusted from the client.
	ApplyCoupon(ctx context.Context, token string, userID *uint, code string) (*dto.CartView, *dto.CouponResult, error)
	RemoveCoupon(ctx context.Context, token string, userID *uint) (*dto.CartView, error)

	// Load returns the raw cart for the checkout orchestrator.
	Load(ctx context.Context, token string) (*model.Cart, error)
}

type cartServiceImpl struct {
	cartStore     repository.CartStore
	productRepo   repository.ProductRepository
	couponService CouponService
}

func NewCartService(
	cartStore repository.CartStore,
	productRepo repository.ProductRepository,
	couponService CouponService,
) CartService {
	return &cartServiceImpl{
		cartStore:     cartStore,
		productRepo:   productRepo,
		couponService: couponService,
	}
}

func (s *cartServiceImpl) load(ctx context.Context, token string, userID *uint) (*model.Cart, error) {
	cart, err := s.cartStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &model.Cart{Token: token, UserID: userID}, nil
		}
		return nil, err
	}
	if userID != nil {
		cart.UserID = userID
	}
	return cart, nil
}

func (s *cartServiceImpl) Load(ctx context.Context, token string) (*model.Cart, error) {
	return s.load(ctx, token, nil)
}

func (s *cartServiceImpl) Get(ctx context.Context, token string, userID *uint) (*dto.CartView, error) {
	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, token string, userID *uint, req dto.AddToCartRequest) (*dto.CartView, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("product not found")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.IsActive() {
		return nil, badRequest("product is not available")
	}
	if req.VariantID != nil {
		if _, err := s.variantOf(product, *req.VariantID); err != nil {
			return nil, err
		}
	}

	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindLine(req.ProductID, req.VariantID)
	newQty := req.Quantity
	if idx >= 0 {
		newQty += cart.Items[idx].Quantity
	}
	if newQty > product.Stock {
		return nil, badRequest(fmt.Sprintf("only %d of %s in stock", product.Stock, product.Name))
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = newQty
	} else {
		cart.Items = append(cart.Items, model.CartLine{
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
		})
	}

	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return s.buildView(ctx, cart)
}

func (s *cartServiceImpl) UpdateItem(ctx context.Context, token string, userID *uint, req dto.UpdateCartItemRequest) (*dto.CartView, error) {
	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindLine(req.ProductID, req.VariantID)
	if idx < 0 {
		return nil, notFound("item not in cart")
	}

	if req.Quantity == 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		product, err := s.productRepo.FindByID(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		if req.Quantity > product.Stock {
			return nil, badRequest(fmt.Sprintf("only %d of %s in stock", product.Stock, product.Name))
		}
		cart.Items[idx].Quantity = req.Quantity
	}

	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return s.buildView(ctx, cart)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, token string, userID *uint, productID uint, variantID *uint) (*dto.CartView, error) {
	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindLine(productID, variantID)
	if idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		if err := s.cartStore.Save(ctx, cart); err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
	}
	return s.buildView(ctx, cart)
}

func (s *cartServiceImpl) Clear(ctx context.Context, token string) error {
	return s.cartStore.Delete(ctx, token)
}

func (s *cartServiceImpl) ApplyCoupon(ctx context.Context, token string, userID *uint, code string) (*dto.CartView, *dto.CouponResult, error) {
	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, nil, err
	}
	if cart.IsEmpty() {
		return nil, nil, badRequest("cart is empty")
	}

	subtotal, err := s.subtotal(ctx, cart)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.couponService.Validate(ctx, code, subtotal, userID)
	if err != nil {
		return nil, nil, err
	}
	if !result.Valid {
		return nil, result, nil
	}

	cart.CouponCode = model.NormalizeCouponCode(code)
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, nil, fmt.Errorf("save cart: %w", err)
	}

	view, err := s.buildView(ctx, cart)
	return view, result, err
}

func (s *cartServiceImpl) RemoveCoupon(ctx context.Context, token string, userID *uint) (*dto.CartView, error) {
	cart, err := s.load(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	if err := s.cartStore.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return s.buildView(ctx, cart)
}

func (s *cartServiceImpl) variantOf(product *model.Product, variantID uint) (*model.ProductVariant, error) {
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			return &product.Variants[i], nil
		}
	}
	return nil, notFound("variant not found")
}

// unitPrice resolves a line's price: the variant's own price when a variant
// is chosen, otherwise the product's effective price.
func unitPrice(product *model.Product, variantID *uint) (decimal.Decimal, string) {
	if variantID != nil {
		for i := range product.Variants {
			if product.Variants[i].ID == *variantID {
				return product.Variants[i].Price, product.Variants[i].Name
			}
		}
	}
	return product.EffectivePrice(), ""
}

func (s *cartServiceImpl) subtotal(ctx context.Context, cart *model.Cart) (decimal.Decimal, error) {
	products, err := s.productsOf(ctx, cart)
	if err != nil {
		return decimal.Zero, err
	}

	subtotal := decimal.Zero
	for _, line := range cart.Items {
		product, ok := products[line.ProductID]
		if !ok || !product.IsActive() {
			continue
		}
		price, _ := unitPrice(product, line.VariantID)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal.Round(2), nil
}

func (s *cartServiceImpl) productsOf(ctx context.Context, cart *model.Cart) (map[uint]*model.Product, error) {
	if cart.IsEmpty() {
		return map[uint]*model.Product{}, nil
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}

	byID := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *cartServiceImpl) buildView(ctx context.Context, cart *model.Cart) (*dto.CartView, error) {
	products, err := s.productsOf(ctx, cart)
	if err != nil {
		return nil, err
	}

	view := &dto.CartView{
		Token:    cart.Token,
		Items:    []dto.CartItemView{},
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
	}

	for _, line := range cart.Items {
		product, ok := products[line.ProductID]
		if !ok || !product.IsActive() {
			continue
		}
		price, variantName := unitPrice(product, line.VariantID)
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		view.Items = append(view.Items, dto.CartItemView{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: product.Name,
			VariantName: variantName,
			UnitPrice:   price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
			Stock:       product.Stock,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	view.Subtotal = view.Subtotal.Round(2)

	if cart.CouponCode != "" {
		result, err := s.couponService.Validate(ctx, cart.CouponCode, view.Subtotal, cart.UserID)
		if err != nil {
			return nil, err
		}
		if result.Valid {
			view.CouponCode = cart.CouponCode
			view.Discount = result.Discount
			view.FreeShipping = result.FreeShipping
		}
	}

	return view, nil
}
