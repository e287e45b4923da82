package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"tableside/internal/cart"
	"tableside/internal/events"
	"tableside/internal/models"
	"tableside/internal/repositories"
)

var (
	// ErrEmptyCart rejects a submission with nothing in it.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition rejects status changes that would move the order
	// lifecycle backwards, out of a terminal state, or that lost a race to a
	// concurrent writer.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// CartStore is the slice of the cart store the submission protocol needs.
// Satisfied by *cart.Store.
type CartStore interface {
	Get(ctx context.Context, tableNumber string) (*cart.Cart, error)
	Clear(ctx context.Context, tableNumber string) error
}

// OrderServiceInterface owns the cart-to-order submission protocol and the
// kitchen-side lifecycle.
type OrderServiceInterface interface {
	SubmitOrder(ctx context.Context, tableNumber string) (*models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
	KitchenQueue(ctx context.Context) ([]*models.Order, error)
	AdvanceOrder(ctx context.Context, id uuid.UUID, to string) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	tableRepo     repositories.TableRepository
	cartStore     CartStore
	bus           events.Bus
}

func NewOrderService(orderRepo repositories.OrderRepository, orderItemRepo repositories.OrderItemRepository,
	tableRepo repositories.TableRepository, cartStore CartStore, bus events.Bus) OrderServiceInterface {
	return &orderService{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		tableRepo:     tableRepo,
		cartStore:     cartStore,
		bus:           bus,
	}
}

// SubmitOrder converts a table's cart into a persisted order. The order row,
// its line items, and the table occupancy flip commit as one transaction; the
// cart is cleared only after the commit, so a failed submission leaves it
// intact for retry. The total is recomputed server-side from the stored cart.
func (s *orderService) SubmitOrder(ctx context.Context, tableNumber string) (*models.Order, error) {
	table, err := s.tableRepo.GetByTableNumber(ctx, tableNumber)
	if err != nil {
		return nil, fmt.Errorf("look up table %q: %w", tableNumber, err)
	}

	c, err := s.cartStore.Get(ctx, tableNumber)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := &models.Order{
		ID:          uuid.New(),
		TableNumber: table.TableNumber,
		Status:      models.OrderStatusPending,
		TotalAmount: c.Total(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	items := make([]*models.OrderItem, 0, len(c.Items))
	for _, entry := range c.Items {
		items = append(items, &models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: entry.MenuItemID,
			ItemName:   entry.Name,
			Quantity:   entry.Quantity,
			UnitPrice:  entry.UnitPrice,
			Notes:      entry.Notes,
			CreatedAt:  now,
		})
	}

	if err := s.orderRepo.CreateWithItems(ctx, order, items, table.ID); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	order.Items = items

	// Post-commit cleanup is best-effort. A surviving cart expires on its
	// TTL; a lost event costs one redundant kitchen fetch.
	if err := s.cartStore.Clear(ctx, tableNumber); err != nil {
		log.Printf("clearing cart for table %s after submission: %v", tableNumber, err)
	}
	s.publish(ctx, events.ActionInsert, order)

	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.orderItemRepo.ListByOrderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	orders, err := s.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// KitchenQueue returns pending and preparing orders oldest-first, with line
// items attached.
func (s *orderService) KitchenQueue(ctx context.Context) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdvanceOrder moves an order forward: pending to preparing, or preparing to
// completed. The underlying update is a compare-and-set, so the losing side
// of a concurrent double-advance gets ErrInvalidTransition instead of
// silently re-applying a stale status.
func (s *orderService) AdvanceOrder(ctx context.Context, id uuid.UUID, to string) (*models.Order, error) {
	if to != models.OrderStatusPreparing && to != models.OrderStatusCompleted {
		return nil, fmt.Errorf("%w: cannot advance to %q", ErrInvalidTransition, to)
	}
	return s.transition(ctx, id, to)
}

// CancelOrder is the admin-console path out of the lifecycle. Only pending
// orders can be cancelled; once the kitchen has started preparing, the order
// runs to completion.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.transition(ctx, id, models.OrderStatusCancelled)
}

func (s *orderService) transition(ctx context.Context, id uuid.UUID, to string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionOrder(order.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, to)
	}

	applied, err := s.orderRepo.UpdateStatus(ctx, id, order.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !applied {
		return nil, fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, id)
	}

	order.Status = to
	order.UpdatedAt = time.Now()
	s.publish(ctx, events.ActionUpdate, order)
	return order, nil
}

func (s *orderService) attachItems(ctx context.Context, orders []*models.Order) error {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	grouped, err := s.orderItemRepo.ListByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, order := range orders {
		order.Items = grouped[order.ID]
	}
	return nil
}

func (s *orderService) publish(ctx context.Context, action string, order *models.Order) {
	err := s.bus.Publish(ctx, events.Event{
		Channel: events.ChannelOrders,
		Action:  action,
		OrderID: order.ID,
		Status:  order.Status,
	})
	if err != nil {
		log.Printf("publishing %s event for order %s: %v", action, order.ID, err)
	}
}
