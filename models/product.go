package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the way the storefront sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID                string          `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SKU               string          `gorm:"uniqueIndex;type:varchar(64);not null" json:"sku"`
	Name              string          `gorm:"not null" json:"name"`
	Description       string          `json:"description"`
	Category          string          `gorm:"index" json:"category"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Discount          decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount"` // percentage
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	Images            []string        `gorm:"serializer:json" json:"images"`
	IsAvailable       bool            `json:"isAvailable"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsLowStock reports whether the product is running out but not yet sold out.
func (p Product) IsLowStock() bool {
	return p.Stock > 0 && p.Stock <= p.LowStockThreshold
}

// DiscountedPrice is the unit price after the product discount.
func (p Product) DiscountedPrice() decimal.Decimal {
	return p.Price.Sub(p.Price.Mul(p.Discount).Div(hundred))
}

// CartItem snapshots the product for the cart at add time.
func (p Product) CartItem() CartItem {
	item := CartItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Discount:    p.Discount,
		Stock:       p.Stock,
	}
	if len(p.Images) > 0 {
		item.ProductImage = p.Images[0]
	}
	return item
}
