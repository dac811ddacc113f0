package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// AllOrderStatuses lists every status the transition table covers.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// orderStatusTransitions is the complete allowed-edge set. Any (from, to)
// pair missing here is denied; there are no implicit defaults.
var orderStatusTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending: {
		OrderStatusProcessing: true,
		OrderStatusCancelled:  true,
	},
	OrderStatusProcessing: {
		OrderStatusPacked:    true,
		OrderStatusCancelled: true,
	},
	OrderStatusPacked: {
		OrderStatusShipped: true,
	},
	OrderStatusShipped: {
		OrderStatusOutForDelivery: true,
	},
	OrderStatusOutForDelivery: {
		OrderStatusDelivered: true,
	},
	OrderStatusDelivered: {
		OrderStatusReturned: true,
	},
	OrderStatusCancelled: {},
	OrderStatusReturned:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderStatusTransitions[s][next]
}

// CanCancel reports whether an order in this status may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	return orderStatusTransitions[s][OrderStatusCancelled]
}

func (s OrderStatus) String() string { return string(s) }

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var AllPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// paymentStatusTransitions is deliberately restrictive: the gateway may flip
// pending to paid or failed and retry a failed payment, and only a paid order
// can be refunded. Nothing moves out of refunded.
var paymentStatusTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentStatusPending: {
		PaymentStatusPaid:   true,
		PaymentStatusFailed: true,
	},
	PaymentStatusFailed: {
		PaymentStatusPaid: true,
	},
	PaymentStatusPaid: {
		PaymentStatusRefunded: true,
	},
	PaymentStatusRefunded: {},
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return paymentStatusTransitions[s][next]
}

func (s PaymentStatus) String() string { return string(s) }

const (
	PaymentMethodCOD   = "cod"
	PaymentMethodEsewa = "esewa"
)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	UserID      *uint  `gorm:"index" json:"user_id,omitempty"`

	Status        OrderStatus   `gorm:"size:32;index;not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:32;index;not null" json:"payment_status"`
	PaymentMethod string        `gorm:"size:32;not null" json:"payment_method"`
	TransactionID *string       `gorm:"size:128" json:"transaction_id,omitempty"`

	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_cost"`
	Discount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CouponCode   *string         `gorm:"size:64" json:"coupon_code,omitempty"`

	// Shipping snapshot, denormalized at order time.
	ShippingName    string `gorm:"size:128;not null" json:"shipping_name"`
	ShippingEmail   string `gorm:"size:128;not null" json:"shipping_email"`
	ShippingPhone   string `gorm:"size:32;not null" json:"shipping_phone"`
	ShippingAddress string `gorm:"size:255;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"size:64;not null" json:"shipping_city"`
	Notes           string `gorm:"size:500" json:"notes,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is immutable after creation; name and price fields are snapshots
// so later catalog edits never alter historical orders.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	OrderID   uint  `gorm:"index;not null" json:"order_id"`
	ProductID uint  `gorm:"index;not null" json:"product_id"`
	VariantID *uint `gorm:"index" json:"variant_id,omitempty"`

	ProductName string          `gorm:"size:128;not null" json:"product_name"`
	VariantName string          `gorm:"size:128" json:"variant_name,omitempty"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`

	CreatedAt time.Time `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
