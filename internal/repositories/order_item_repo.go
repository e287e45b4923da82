package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tableside/internal/models"
)

type OrderItemRepository interface {
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	// ListByOrderIDs fetches line items for a batch of orders in one query,
	// keyed by order ID, so list endpoints avoid an N+1 fan-out.
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error)
	// TopItemsSince ranks line items by units sold since the given time,
	// grouped by the snapshot name so deleted menu items still show up.
	TopItemsSince(ctx context.Context, since time.Time, limit int) ([]*models.ItemSales, error)
}

type orderItemRepo struct {
	db DB
}

func NewOrderItemRepo(db DB) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Notes, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderItemRepo) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]*models.OrderItem, error) {
	grouped := make(map[uuid.UUID][]*models.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Notes, &item.CreatedAt); err != nil {
			return nil, err
		}
		grouped[item.OrderID] = append(grouped[item.OrderID], item)
	}
	return grouped, rows.Err()
}

func (r *orderItemRepo) TopItemsSince(ctx context.Context, since time.Time, limit int) ([]*models.ItemSales, error) {
	query := `
		SELECT oi.item_name, SUM(oi.quantity)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.created_at >= $1 AND o.status <> $2
		GROUP BY oi.item_name
		ORDER BY SUM(oi.quantity) DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, since, models.OrderStatusCancelled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*models.ItemSales
	for rows.Next() {
		entry := &models.ItemSales{}
		if err := rows.Scan(&entry.ItemName, &entry.Quantity); err != nil {
			return nil, err
		}
		ranked = append(ranked, entry)
	}
	return ranked, rows.Err()
}
