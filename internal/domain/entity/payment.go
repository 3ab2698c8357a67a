package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukapoint/cloudsales-api/internal/domain/enum"
)

// Payment belongs to exactly one sale. Cash and card payments are created already
// completed inside the checkout transaction; mobile money payments are created
// pending with Reference set to the provider's checkout request id and transition
// through callback/poll reconciliation.
type Payment struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	Amount    int64              `gorm:"not null" json:"-"` // cents
	Method    enum.PaymentMethod `gorm:"size:20;not null" json:"method"`
	Reference string             `gorm:"size:100;index" json:"reference,omitempty"`
	Status    enum.PaymentStatus `gorm:"size:20;default:pending;not null" json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
