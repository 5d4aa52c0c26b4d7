package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles are compared by string equality; there is no hierarchy encoding.
const (
	RoleCustomer   = "CUSTOMER"
	RoleOperator   = "OPERATOR"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // bcrypt hash; empty for OAuth-only accounts
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role" gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	OIDCSub   string    `json:"-" gorm:"index"` // subject claim for OAuth logins
	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Address struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Label      string    `json:"label"`
	Street     string    `json:"street"`
	District   string    `json:"district"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
