package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a cashier or manager. Authentication itself is handled
// upstream; the API only consumes the actor's identity, role and store scope.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Username     string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:256;not null" json:"-"`
	FirstName    string     `gorm:"size:64" json:"first_name,omitempty"`
	LastName     string     `gorm:"size:64" json:"last_name,omitempty"`
	Role         string     `gorm:"size:50;not null" json:"role"`
	StoreID      *uuid.UUID `gorm:"type:uuid;index" json:"store_id,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FullName returns the display name used on receipts
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
