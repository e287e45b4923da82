package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

// Table represents a physical restaurant table. TableNumber is the
// human-facing label and doubles as the routing key in the order-entry URL,
// so it must be unique.
type Table struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TableNumber string    `json:"table_number" db:"table_number"`
	Status      string    `json:"status" db:"status"`
	QRCode      *string   `json:"qr_code" db:"qr_code"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ValidTableStatus reports whether s is a recognized table status.
func ValidTableStatus(s string) bool {
	return s == TableStatusAvailable || s == TableStatusOccupied
}
