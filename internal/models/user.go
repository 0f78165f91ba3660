package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleOwner      Role = "owner"
	RoleReception  Role = "reception"
	RoleDoctor     Role = "doctor"
	RolePharmacy   Role = "pharmacy"
	RoleAccountant Role = "accountant"
)

// Claims is the payload embedded in a session token. Sessions are stateless:
// the server keeps no session table, so everything needed to identify the
// caller travels inside the token.
type Claims struct {
	UserID   uint   `json:"user_id"`
	ClinicID uint   `json:"clinic_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ClinicID     uint      `json:"clinic_id" gorm:"not null;index"`
	Username     string    `json:"username" gorm:"not null;uniqueIndex"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;check:role IN ('owner','reception','doctor','pharmacy','accountant')"`
	FullName     string    `json:"full_name" gorm:"not null"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}
