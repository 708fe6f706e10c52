package models

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleStoreOwner      Role = "store_owner"
	RoleDeliveryPartner Role = "delivery_partner"

	// RoleGuest is only ever carried by guest session tokens.
	RoleGuest Role = "guest"
)

// Valid reports whether r is a role a user account can hold.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStoreOwner, RoleDeliveryPartner:
		return true
	}
	return false
}

// ParseRole accepts account roles only; guest is rejected.
func ParseRole(role string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}
	return r, nil
}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name"`
	Role         Role      `gorm:"type:varchar(32);not null" json:"role"`
	BusinessName string    `json:"businessName,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
