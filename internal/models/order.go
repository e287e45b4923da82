package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// orderTransitions is the forward-only lifecycle. Completed and cancelled are
// terminal; cancellation is an admin-console operation allowed only while an
// order is still pending.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusCompleted},
}

// CanTransitionOrder reports whether an order may move from one status to
// another. Transitions never move backwards and terminal states have no exits.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a submitted table order. TableNumber is a denormalized copy of the
// table's label at submission time, not a foreign key. TotalAmount equals the
// sum of item UnitPrice*Quantity at submission time.
type Order struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	TableNumber string       `json:"table_number" db:"table_number"`
	Status      string       `json:"status" db:"status"`
	TotalAmount float64      `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Items       []*OrderItem `json:"items" db:"-"`
}
