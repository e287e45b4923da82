package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tableside/internal/models"
)

type OrderRepository interface {
	// CreateWithItems persists the order, all of its line items, and the
	// table occupancy flip in one transaction. Either everything commits or
	// nothing does; a submission can never leave an order without items or a
	// table not marked occupied.
	CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem, tableID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// UpdateStatus applies a compare-and-set transition and reports whether
	// a row actually changed. Zero rows means a concurrent writer got there
	// first, or the order no longer holds the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error)
	// ListActive returns the kitchen queue: pending and preparing orders,
	// oldest first.
	ListActive(ctx context.Context) ([]*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	CountByStatusSince(ctx context.Context, since time.Time) (map[string]int, error)
	CompletedRevenueSince(ctx context.Context, since time.Time) (float64, error)
}

type orderRepo struct {
	db DB
}

func NewOrderRepo(db DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) CreateWithItems(ctx context.Context, order *models.Order, items []*models.OrderItem, tableID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submission: %w", err)
	}
	defer tx.Rollback(ctx)

	orderQuery := `
		INSERT INTO orders (id, table_number, status, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, orderQuery, order.ID, order.TableNumber, order.Status, order.TotalAmount); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, menu_item_id, item_name, quantity, unit_price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery, item.ID, item.OrderID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice, item.Notes); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	tableQuery := `UPDATE tables SET status = $1, updated_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(ctx, tableQuery, models.TableStatusOccupied, tableID); err != nil {
		return fmt.Errorf("occupy table: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, table_number, status, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.TableNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *orderRepo) ListActive(ctx context.Context) ([]*models.Order, error) {
	// FIFO service discipline: the kitchen works oldest orders first.
	query := `
		SELECT id, table_number, status, total_amount, created_at, updated_at
		FROM orders
		WHERE status IN ($1, $2)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, models.OrderStatusPending, models.OrderStatusPreparing)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.TableNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, table_number, status, total_amount, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.TableNumber, &order.Status, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) CountByStatusSince(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM orders
		WHERE created_at >= $1
		GROUP BY status
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *orderRepo) CompletedRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status = $1 AND created_at >= $2
	`
	var revenue float64
	err := r.db.QueryRow(ctx, query, models.OrderStatusCompleted, since).Scan(&revenue)
	return revenue, err
}
