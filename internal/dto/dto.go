package dto

import "github.com/shopspring/decimal"

// ---- auth / account ----

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"omitempty,min=7,max=32"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=128"`
	Phone string `json:"phone" validate:"omitempty,min=7,max=32"`
}

type AddressRequest struct {
	Name      string `json:"name" validate:"required,max=128"`
	Phone     string `json:"phone" validate:"required,min=7,max=32"`
	Address   string `json:"address" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=64"`
	IsDefault bool   `json:"is_default"`
}

// ---- cart ----

type AddToCartRequest struct {
	ProductID uint  `json:"product_id" validate:"required,min=1"`
	VariantID *uint `json:"variant_id" validate:"omitempty,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	ProductID uint  `json:"product_id" validate:"required,min=1"`
	VariantID *uint `json:"variant_id" validate:"omitempty,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=0,max=99"`
}

type CartItemView struct {
	ProductID   uint            `json:"product_id"`
	VariantID   *uint           `json:"variant_id,omitempty"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Stock       int             `json:"stock"`
}

type CartView struct {
	Token        string          `json:"token"`
	Items        []CartItemView  `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CouponCode   string          `json:"coupon_code,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	FreeShipping bool            `json:"free_shipping"`
}

// ---- coupon ----

type CouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type CouponResult struct {
	Valid        bool            `json:"valid"`
	Message      string          `json:"message,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	FreeShipping bool            `json:"free_shipping"`
}

// ---- checkout ----

type CheckoutRequest struct {
	Name          string `json:"name" validate:"required,max=128"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,min=7,max=32"`
	Address       string `json:"address" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=64"`
	Notes         string `json:"notes" validate:"max=500"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cod esewa"`
}

type CheckoutLineError struct {
	ProductID uint   `json:"product_id"`
	Message   string `json:"message"`
}

// ---- catalog admin ----

type ProductRequest struct {
	Name              string           `json:"name" validate:"required,max=128"`
	Slug              string           `json:"slug" validate:"required,max=128"`
	Description       string           `json:"description" validate:"max=2000"`
	Unit              string           `json:"unit" validate:"max=32"`
	CategoryID        uint             `json:"category_id" validate:"required,min=1"`
	Price             decimal.Decimal  `json:"price" validate:"required"`
	SalePrice         *decimal.Decimal `json:"sale_price"`
	Stock             int              `json:"stock" validate:"min=0"`
	LowStockThreshold int              `json:"low_stock_threshold" validate:"min=0"`
	Status            string           `json:"status" validate:"omitempty,oneof=active inactive"`
	Featured          bool             `json:"featured"`
}

type CategoryRequest struct {
	Name   string `json:"name" validate:"required,max=128"`
	Slug   string `json:"slug" validate:"required,max=128"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type StockAdjustRequest struct {
	Delta int    `json:"delta" validate:"required"`
	Notes string `json:"notes" validate:"max=255"`
}

type AdminCouponRequest struct {
	Code            string           `json:"code" validate:"required,max=64"`
	Type            string           `json:"type" validate:"required,oneof=percentage fixed free_shipping"`
	Value           decimal.Decimal  `json:"value"`
	MinOrderAmount  decimal.Decimal  `json:"min_order_amount"`
	MaximumDiscount *decimal.Decimal `json:"maximum_discount"`
	MaxUses         *int             `json:"max_uses" validate:"omitempty,min=1"`
	PerUserLimit    int              `json:"per_user_limit" validate:"min=0"`
	StartsAt        *string          `json:"starts_at"`
	ExpiresAt       *string          `json:"expires_at"`
	Status          string           `json:"status" validate:"omitempty,oneof=active inactive"`
}

// ---- orders ----

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type UpdatePaymentStatusRequest struct {
	Status        string  `json:"status" validate:"required"`
	TransactionID *string `json:"transaction_id"`
}

// ---- reviews / blog / newsletter ----

type ReviewRequest struct {
	ProductID uint   `json:"product_id" validate:"required,min=1"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

type BlogPostRequest struct {
	Title     string `json:"title" validate:"required,max=255"`
	Slug      string `json:"slug" validate:"required,max=255"`
	Excerpt   string `json:"excerpt" validate:"max=500"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type WishlistRequest struct {
	ProductID uint `json:"product_id" validate:"required,min=1"`
}
