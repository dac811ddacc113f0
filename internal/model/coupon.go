package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercentage   CouponType = "percentage"
	CouponTypeFixed        CouponType = "fixed"
	CouponTypeFreeShipping CouponType = "free_shipping"
)

const (
	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

type Coupon struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:64;uniqueIndex;not null" json:"code"`

	Type  CouponType      `gorm:"size:32;not null" json:"type"`
	Value decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`

	MinOrderAmount  decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0" json:"min_order_amount"`
	MaximumDiscount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"maximum_discount,omitempty"`

	MaxUses      *int `json:"max_uses,omitempty"`
	UsesCount    int  `gorm:"not null;default:0" json:"uses_count"`
	PerUserLimit int  `gorm:"not null;default:0" json:"per_user_limit"` // 0 means unlimited

	StartsAt  *time.Time `json:"starts_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Status    string     `gorm:"size:16;not null;default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Coupon) TableName() string { return "coupons" }

// NormalizeCouponCode uppercases and trims a code so lookups are
// case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c *Coupon) IsActive() bool {
	return c.Status == CouponStatusActive
}

func (c *Coupon) HasStarted(now time.Time) bool {
	return c.StartsAt == nil || !now.Before(*c.StartsAt)
}

func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

func (c *Coupon) HasReachedMaxUsage() bool {
	return c.MaxUses != nil && c.UsesCount >= *c.MaxUses
}

func (c *Coupon) MeetsMinimumOrder(cartTotal decimal.Decimal) bool {
	return cartTotal.GreaterThanOrEqual(c.MinOrderAmount)
}

// CalculateDiscount computes the discount for a cart total that already
// passed validation. A fixed coupon never exceeds the cart total, the
// maximum_discount cap applies last, and the result is rounded half-up to
// two places. Free-shipping coupons discount nothing and set the flag.
func (c *Coupon) CalculateDiscount(cartTotal decimal.Decimal) (decimal.Decimal, bool) {
	discount := decimal.Zero
	freeShipping := false

	switch c.Type {
	case CouponTypePercentage:
		discount = cartTotal.Mul(c.Value).Div(decimal.NewFromInt(100))
	case CouponTypeFixed:
		discount = decimal.Min(c.Value, cartTotal)
	case CouponTypeFreeShipping:
		freeShipping = true
	}

	if c.MaximumDiscount != nil && discount.GreaterThan(*c.MaximumDiscount) {
		discount = *c.MaximumDiscount
	}

	return discount.Round(2), freeShipping
}

// CouponUsage is one row per successful redemption; per-user limits are
// enforced by counting these rows.
type CouponUsage struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CouponID       uint            `gorm:"index;not null" json:"coupon_id"`
	UserID         *uint           `gorm:"index" json:"user_id,omitempty"`
	OrderID        uint            `gorm:"index;not null" json:"order_id"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	UsedAt         time.Time       `gorm:"not null" json:"used_at"`
}

func (CouponUsage) TableName() string { return "coupon_usages" }
