package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:128;not null" json:"name"`
	Slug   string `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Status string `gorm:"size:16;not null;default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Slug        string `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:2000" json:"description"`
	Unit        string `gorm:"size:32" json:"unit"` // litre, kg, piece
	CategoryID  uint   `gorm:"index;not null" json:"category_id"`

	Price     decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"price"`
	SalePrice *decimal.Decimal `gorm:"type:decimal(12,2)" json:"sale_price,omitempty"`

	Stock             int `gorm:"not null;default:0" json:"stock"`
	LowStockThreshold int `gorm:"not null;default:5" json:"low_stock_threshold"`

	Status   string `gorm:"size:16;index;not null;default:active" json:"status"`
	Featured bool   `gorm:"not null;default:false" json:"featured"`

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string { return "products" }

// EffectivePrice is the sale price when one is set below the list price,
// otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// ProductVariant carries its own price; stock is tracked on the parent
// product.
type ProductVariant struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Name      string          `gorm:"size:128;not null" json:"name"` // e.g. 500ml, 1L
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variants" }
