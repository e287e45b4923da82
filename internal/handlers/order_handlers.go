package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"tableside/internal/common"
	"tableside/internal/events"
	"tableside/internal/models"
	"tableside/internal/services"
)

// OrderHandlers handles order submission, the kitchen queue, and the admin
// order list.
type OrderHandlers struct {
	orderService services.OrderServiceInterface
	bus          events.Bus
}

func NewOrderHandlers(orderService services.OrderServiceInterface, bus events.Bus) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		bus:          bus,
	}
}

// SubmitOrder handles POST /v1/tables/:tableNumber/orders. It converts the
// table's cart into a pending order in one transaction.
func (h *OrderHandlers) SubmitOrder(c echo.Context) error {
	tableNumber := c.Param("tableNumber")
	if err := common.ValidateTableNumber(tableNumber); err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.SubmitOrder(c.Request().Context(), tableNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if errors.Is(err, services.ErrEmptyCart) {
		return common.SendClientError(c, "Cart is empty")
	}
	if err != nil {
		// The cart survives a failed submission; the customer retries.
		c.Logger().Errorf("submitting order for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error submitting order")
	}
	return c.JSON(http.StatusCreated, order)
}

// KitchenQueue handles GET /v1/kitchen/orders: pending and preparing
// orders, oldest first.
func (h *OrderHandlers) KitchenQueue(c echo.Context) error {
	orders, err := h.orderService.KitchenQueue(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("loading kitchen queue: %v", err)
		return common.SendServerError(c, "Error loading orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// ListOrders handles GET /v1/orders (admin; newest first)
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	limit := 50
	offset := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			return common.SendValidationError(c, "limit", "limit must be between 1 and 200")
		}
		limit = parsed
	}
	if raw := c.QueryParam("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return common.SendValidationError(c, "offset", "offset must not be negative")
		}
		offset = parsed
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), limit, offset)
	if err != nil {
		c.Logger().Errorf("listing orders: %v", err)
		return common.SendServerError(c, "Error loading orders")
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /v1/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	order, err := h.orderService.GetOrderByID(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Order")
	}
	if err != nil {
		c.Logger().Errorf("loading order %s: %v", id, err)
		return common.SendServerError(c, "Error loading order")
	}
	return c.JSON(http.StatusOK, order)
}

// UpdateStatus handles PATCH /v1/orders/:id/status, the kitchen advancing
// an order to preparing or completed.
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if !models.ValidOrderStatus(req.Status) {
		return common.SendValidationError(c, "status", "unknown order status")
	}

	order, err := h.orderService.AdvanceOrder(c.Request().Context(), id, req.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Order")
	}
	if errors.Is(err, services.ErrInvalidTransition) {
		return common.SendConflictError(c, err.Error())
	}
	if err != nil {
		c.Logger().Errorf("updating status of order %s: %v", id, err)
		return common.SendServerError(c, "Error updating order status")
	}
	return c.JSON(http.StatusOK, order)
}

// CancelOrder handles POST /v1/orders/:id/cancel (admin; pending orders only)
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Order")
	}
	if errors.Is(err, services.ErrInvalidTransition) {
		return common.SendConflictError(c, err.Error())
	}
	if err != nil {
		c.Logger().Errorf("cancelling order %s: %v", id, err)
		return common.SendServerError(c, "Error cancelling order")
	}
	return c.JSON(http.StatusOK, order)
}

// StreamOrders handles GET /v1/kitchen/orders/stream, a server-sent event
// feed of order change notifications. Each event is a poke to re-fetch the
// queue, never a source of truth on its own.
func (h *OrderHandlers) StreamOrders(c echo.Context) error {
	ctx := c.Request().Context()

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	feed, cancel := h.bus.Subscribe(ctx, events.ChannelOrders)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-feed:
			if !ok {
				return nil
			}
			data, err := json.Marshal(event)
			if err != nil {
				c.Logger().Errorf("encoding order event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(resp, "event: %s\ndata: %s\n\n", event.Action, data); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
