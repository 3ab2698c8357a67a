package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	SKU          string    `gorm:"size:50;uniqueIndex" json:"sku,omitempty"`
	Barcode      string    `gorm:"size:50;uniqueIndex" json:"barcode,omitempty"`
	SellingPrice int64     `gorm:"not null" json:"-"` // cents
	CostPrice    int64     `gorm:"default:0" json:"-"` // cents
	TaxRate      float64   `gorm:"default:0" json:"tax_rate"` // VAT percentage
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice float64 `json:"selling_price"`
		CostPrice    float64 `json:"cost_price"`
	}{
		Alias:        Alias(p),
		SellingPrice: float64(p.SellingPrice) / 100,
		CostPrice:    float64(p.CostPrice) / 100,
	})
}

// ItemCode returns the SKU, falling back to a derived code for fiscal invoices
func (p *Product) ItemCode() string {
	if p.SKU != "" {
		return p.SKU
	}
	return fmt.Sprintf("PROD-%s", p.ID)
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
