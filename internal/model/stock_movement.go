package model

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementReserved   MovementType = "reserved"
	MovementReleased   MovementType = "released"
)

const (
	MovementRefOrder      = "order"
	MovementRefReturn     = "return"
	MovementRefAdjustment = "adjustment"
)

// StockMovement is an append-only ledger row. stock_after of the latest row
// for a product must equal the product's current stock.
type StockMovement struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ProductID uint         `gorm:"index;not null" json:"product_id"`
	Type      MovementType `gorm:"size:16;index;not null" json:"type"`
	Quantity  int          `gorm:"not null" json:"quantity"`

	StockBefore int `gorm:"not null" json:"stock_before"`
	StockAfter  int `gorm:"not null" json:"stock_after"`

	ReferenceType string `gorm:"size:32;index" json:"reference_type"`
	ReferenceID   uint   `gorm:"index" json:"reference_id"`

	Notes     string `gorm:"size:255" json:"notes,omitempty"`
	CreatedBy *uint  `json:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (StockMovement) TableName() string { return "stock_movements" }
