package models

import (
	"time"
)

// AuditLog is an append-only record of a security-relevant action. Entries
// are never updated or deleted by this service. UserID is nullable so that
// anonymous or system actions can still be recorded.
type AuditLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ClinicID   uint      `json:"clinic_id" gorm:"not null;index"`
	UserID     *uint     `json:"user_id" gorm:"index"`
	Action     string    `json:"action" gorm:"not null;index"`
	EntityType string    `json:"entity_type" gorm:"not null"`
	EntityID   *uint     `json:"entity_id"`
	OldValues  *string   `json:"old_values"`
	NewValues  *string   `json:"new_values"`
	IPAddress  *string   `json:"ip_address"`
	UserAgent  *string   `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
