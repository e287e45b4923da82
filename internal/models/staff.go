package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StaffRoleAdmin   = "admin"
	StaffRoleKitchen = "kitchen"
)

// Staff is a back-of-house account (administrator or kitchen). Customers never
// authenticate; they reach the order-entry surface through a table's QR URL.
type Staff struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ValidStaffRole reports whether r is a recognized staff role.
func ValidStaffRole(r string) bool {
	return r == StaffRoleAdmin || r == StaffRoleKitchen
}
