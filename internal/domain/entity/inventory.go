package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory tracks per (product, store) stock. Quantity may go negative when
// oversell is allowed by configuration; underflow is logged, never corrected.
type Inventory struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ProductID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_store" json:"product_id"`
	StoreID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_product_store" json:"store_id"`
	Quantity        int        `gorm:"default:0;not null" json:"quantity"`
	ReorderLevel    int        `gorm:"default:5" json:"reorder_level"`
	LastRestockDate *time.Time `json:"last_restock_date,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Store   Store   `gorm:"foreignKey:StoreID" json:"-"`
}

// IsLowStock reports whether quantity has reached the reorder threshold
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// BeforeCreate generates a UUID before creating a new inventory record
func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Inventory model
func (Inventory) TableName() string {
	return "inventories"
}
