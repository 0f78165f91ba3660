package models

import (
	"time"
)

// Clinic is the tenant root. Every user and audit entry belongs to exactly
// one clinic. Immutable after creation from this service's point of view.
type Clinic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Address   string    `json:"address" gorm:"not null"`
	Phone     string    `json:"phone" gorm:"not null"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
