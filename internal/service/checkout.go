package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dairymart/internal/client"
	"dairymart/internal/dto"
	"dairymart/internal/model"
	"dairymart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CheckoutResult is what the storefront needs after a successful checkout:
// for cod a confirmation redirect, for gateway payments the signed form
// payload the browser posts to the gateway.
type CheckoutResult struct {
	OrderNumber string                 `json:"order_number"`
	RedirectURL string                 `json:"redirect_url,omitempty"`
	Payment     *client.PaymentRequest `json:"payment,omitempty"`
}

type CheckoutService interface {
	// ProcessCheckout runs the whole flow: cart validation, coupon
	// recomputation, atomic order creation with stock decrements and ledger
	// rows, then the payment-method branch. Line errors are returned
	// separately so the caller can show per-item problems.
	ProcessCheckout(ctx context.Context, token string, userID *uint, req dto.CheckoutRequest) (*CheckoutResult, []dto.CheckoutLineError, error)
}

type checkoutServiceImpl struct {
	db               *gorm.DB
	log              *logrus.Logger
	cartService      CartService
	couponService    CouponService
	productRepo      repository.ProductRepository
	orderRepo        repository.OrderRepository
	movementRepo     repository.StockMovementRepository
	notificationRepo repository.NotificationRepository
	esewaClient      client.EsewaClient
	baseURL          string
	shippingCost     decimal.Decimal
}

func NewCheckoutService(
	db *gorm.DB,
	log *logrus.Logger,
	cartService CartService,
	couponService CouponService,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	movementRepo repository.StockMovementRepository,
	notificationRepo repository.NotificationRepository,
	esewaClient client.EsewaClient,
	baseURL string,
	shippingCost decimal.Decimal,
) CheckoutService {
	return &checkoutServiceImpl{
		db:               db,
		log:              log,
		cartService:      cartService,
		couponService:    couponService,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		movementRepo:     movementRepo,
		notificationRepo: notificationRepo,
		esewaClient:      esewaClient,
		baseURL:          baseURL,
		shippingCost:     shippingCost,
	}
}

// newOrderNumber returns a short unique order number like DM-3F2A0C9B7D1E.
func newOrderNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "DM-" + strings.ToUpper(raw[:12])
}

func (s *checkoutServiceImpl) ProcessCheckout(ctx context.Context, token string, userID *uint, req dto.CheckoutRequest) (*CheckoutResult, []dto.CheckoutLineError, error) {
	cart, err := s.cartService.Load(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, nil, badRequest("cart is empty")
	}

	products, lineErrs, err := s.validateForCheckout(ctx, cart)
	if err != nil {
		return nil, nil, err
	}
	if len(lineErrs) > 0 {
		return nil, lineErrs, badRequest("some items are unavailable")
	}

	// Subtotal is always recomputed from live effective prices.
	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product := products[line.ProductID]
		price, variantName := unitPrice(product, line.VariantID)
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, model.OrderItem{
			ProductID:   line.ProductID,
			VariantID:   line.VariantID,
			ProductName: product.Name,
			VariantName: variantName,
			Quantity:    line.Quantity,
			UnitPrice:   price,
			LineTotal:   lineTotal,
		})
	}
	subtotal = subtotal.Round(2)

	// Coupon is re-evaluated against the just-computed subtotal; client
	// supplied discounts are never trusted.
	discount := decimal.Zero
	shipping := s.shippingCost
	var coupon *model.Coupon
	var couponCode *string
	if cart.CouponCode != "" {
		var result *dto.CouponResult
		coupon, result, err = s.couponService.Evaluate(ctx, cart.CouponCode, subtotal, userID)
		if err != nil {
			return nil, nil, err
		}
		if !result.Valid {
			return nil, nil, badRequest(result.Message)
		}
		discount = result.Discount
		if result.FreeShipping {
			shipping = decimal.Zero
		}
		code := cart.CouponCode
		couponCode = &code
	}

	// total = subtotal + shipping - discount, fixed at creation.
	total := subtotal.Add(shipping).Sub(discount).Round(2)

	order := &model.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          userID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Discount:        discount,
		Total:           total,
		CouponCode:      couponCode,
		ShippingName:    req.Name,
		ShippingEmail:   req.Email,
		ShippingPhone:   req.Phone,
		ShippingAddress: req.Address,
		ShippingCity:    req.City,
		Notes:           req.Notes,
		Items:           items,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range order.Items {
			before, after, err := s.productRepo.ReduceStock(ctx, tx, item.ProductID, item.Quantity)
			if err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return badRequest(fmt.Sprintf("insufficient stock for %s", item.ProductName))
				}
				return fmt.Errorf("reduce stock: %w", err)
			}

			if err := s.movementRepo.Record(ctx, tx, &model.StockMovement{
				ProductID:     item.ProductID,
				Type:          model.MovementOut,
				Quantity:      item.Quantity,
				StockBefore:   before,
				StockAfter:    after,
				ReferenceType: model.MovementRefOrder,
				ReferenceID:   order.ID,
			}); err != nil {
				return fmt.Errorf("record stock movement: %w", err)
			}
		}

		if coupon != nil {
			if err := s.couponService.Redeem(ctx, tx, coupon, userID, order.ID, discount); err != nil {
				if errors.Is(err, repository.ErrCouponExhausted) {
					return badRequest(msgCouponExhausted)
				}
				return fmt.Errorf("redeem coupon: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if userID != nil {
		if err := s.notificationRepo.Create(ctx, &model.Notification{
			UserID: *userID,
			Type:   model.NotificationOrderPlaced,
			Title:  "Order placed",
			Body:   fmt.Sprintf("Your order %s has been placed.", order.OrderNumber),
		}); err != nil {
			s.log.WithError(err).Warn("create order notification")
		}
	}

	result := &CheckoutResult{OrderNumber: order.OrderNumber}
	switch req.PaymentMethod {
	case model.PaymentMethodCOD:
		result.RedirectURL = fmt.Sprintf("%s/api/v1/checkout/confirm/%s", s.baseURL, order.OrderNumber)
	case model.PaymentMethodEsewa:
		successURL := fmt.Sprintf("%s/api/v1/payment/esewa/success", s.baseURL)
		failureURL := fmt.Sprintf("%s/api/v1/payment/esewa/failure?oid=%s", s.baseURL, order.OrderNumber)
		result.Payment = s.esewaClient.BuildPaymentRequest(order, successURL, failureURL)
	}

	// The cart is cleared only once the order (and, for gateway payments,
	// the redirect payload) is in hand; a failure above leaves it intact.
	if err := s.cartService.Clear(ctx, token); err != nil {
		s.log.WithError(err).WithField("order", order.OrderNumber).Warn("clear cart after checkout")
	}

	s.log.WithFields(logrus.Fields{
		"order":  order.OrderNumber,
		"method": req.PaymentMethod,
		"total":  order.Total.StringFixed(2),
	}).Info("checkout completed")

	return result, nil, nil
}

// validateForCheckout re-checks every cart line against the live catalog and
// returns one error per failing line; any failure blocks the whole checkout.
func (s *checkoutServiceImpl) validateForCheckout(ctx context.Context, cart *model.Cart) (map[uint]*model.Product, []dto.CheckoutLineError, error) {
	ids := make([]uint, 0, len(cart.Items))
	for _, line := range cart.Items {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load products: %w", err)
	}
	byID := make(map[uint]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var lineErrs []dto.CheckoutLineError
	for _, line := range cart.Items {
		product, ok := byID[line.ProductID]
		switch {
		case !ok || !product.IsActive():
			lineErrs = append(lineErrs, dto.CheckoutLineError{
				ProductID: line.ProductID,
				Message:   "product is no longer available",
			})
		case line.Quantity > product.Stock:
			lineErrs = append(lineErrs, dto.CheckoutLineError{
				ProductID: line.ProductID,
				Message:   fmt.Sprintf("only %d in stock", product.Stock),
			})
		}
	}

	return byID, lineErrs, nil
}
