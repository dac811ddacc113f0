package model

import "time"

// PaymentEvent records every processed gateway callback by its reference id
// so duplicate callbacks are no-ops.
type PaymentEvent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RefID       string `gorm:"size:128;uniqueIndex;not null" json:"ref_id"`
	OrderNumber string `gorm:"size:32;index;not null" json:"order_number"`
	Gateway     string `gorm:"size:32;not null" json:"gateway"`

	ProcessedAt time.Time `json:"processed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (PaymentEvent) TableName() string { return "payment_events" }
