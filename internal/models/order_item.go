package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one menu item x quantity line within a persisted order.
// ItemName and UnitPrice are snapshots captured at submission time, so later
// menu edits or deletions never change past orders.
type OrderItem struct {
	ID         uuid.UUID `json:"id" db:"id"`
	OrderID    uuid.UUID `json:"order_id" db:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string    `json:"item_name" db:"item_name"`
	Quantity   int       `json:"quantity" db:"quantity"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	Notes      *string   `json:"notes" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ItemSales is an aggregated sales row for the admin summary, keyed by the
// line item snapshot name.
type ItemSales struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}
