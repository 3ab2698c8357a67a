package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

// Sale represents a single checkout transaction. Line items and monetary fields
// are immutable after creation; only status transitions (void/return) mutate it.
type Sale struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Reference      string            `gorm:"size:50;unique;not null" json:"reference"`
	SaleDate       time.Time         `gorm:"not null" json:"sale_date"`
	Subtotal       int64             `gorm:"default:0;not null" json:"-"` // cents
	TaxAmount      int64             `gorm:"default:0;not null" json:"-"` // cents
	DiscountAmount int64             `gorm:"default:0;not null" json:"-"` // cents
	TotalAmount    int64             `gorm:"not null" json:"-"`           // cents
	Status         enum.SaleStatus   `gorm:"size:20;default:completed;not null" json:"status"`
	EtimsStatus    enum.FiscalStatus `gorm:"size:30" json:"etims_status,omitempty"`
	Notes          string            `gorm:"type:text" json:"notes,omitempty"`
	CashierID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CustomerID     *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	StoreID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Relationships
	Cashier  User      `gorm:"foreignKey:CashierID" json:"-"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Store    Store     `gorm:"foreignKey:StoreID" json:"-"`
	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []Payment  `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal       float64 `json:"subtotal"`
		TaxAmount      float64 `json:"tax_amount"`
		DiscountAmount float64 `json:"discount_amount"`
		TotalAmount    float64 `json:"total_amount"`
		PaymentStatus  string  `json:"payment_status"`
	}{
		Alias:          Alias(s),
		Subtotal:       float64(s.Subtotal) / 100,
		TaxAmount:      float64(s.TaxAmount) / 100,
		DiscountAmount: float64(s.DiscountAmount) / 100,
		TotalAmount:    float64(s.TotalAmount) / 100,
		PaymentStatus:  s.PaymentStatus(),
	})
}

// PaymentStatus derives Paid/Partial/Unpaid from the completed payments.
// Requires the Payments association to be loaded.
func (s *Sale) PaymentStatus() string {
	var paid int64
	for _, p := range s.Payments {
		if p.Status == enum.PaymentStatusCompleted {
			paid += p.Amount
		}
	}
	switch {
	case paid >= s.TotalAmount:
		return "Paid"
	case paid > 0:
		return "Partial"
	default:
		return "Unpaid"
	}
}

// TotalItems returns the summed quantity across line items
func (s *Sale) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem represents a line item in a sale. Created once, never mutated.
type SaleItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SaleID         uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	UnitPrice      int64     `gorm:"not null" json:"-"`           // cents, price at time of sale
	TaxRate        float64   `gorm:"default:0;not null" json:"tax_rate"`
	DiscountAmount int64     `gorm:"default:0;not null" json:"-"` // cents
	TotalPrice     int64     `gorm:"not null" json:"-"`           // cents
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice      float64 `json:"unit_price"`
		DiscountAmount float64 `json:"discount_amount"`
		TotalPrice     float64 `json:"total_price"`
	}{
		Alias:          Alias(si),
		UnitPrice:      float64(si.UnitPrice) / 100,
		DiscountAmount: float64(si.DiscountAmount) / 100,
		TotalPrice:     float64(si.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
