package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents an optional customer attached to a sale
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Phone         string    `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	Email         string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Address       string    `gorm:"size:255" json:"address,omitempty"`
	LoyaltyPoints int       `gorm:"default:0" json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
