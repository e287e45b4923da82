package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"tableside/internal/cart"
	"tableside/internal/common"
	"tableside/internal/services"
)

// CartSessions is the session store behind the cart endpoints. Satisfied by
// *cart.Store.
type CartSessions interface {
	Get(ctx context.Context, tableNumber string) (*cart.Cart, error)
	Save(ctx context.Context, current *cart.Cart) error
}

// CartHandlers manages the per-table cart session behind the order-entry
// page. All routes are keyed by the table number from the QR URL.
type CartHandlers struct {
	cartStore    CartSessions
	menuService  services.MenuServiceInterface
	tableService services.TableServiceInterface
}

func NewCartHandlers(cartStore CartSessions, menuService services.MenuServiceInterface,
	tableService services.TableServiceInterface) *CartHandlers {
	return &CartHandlers{
		cartStore:    cartStore,
		menuService:  menuService,
		tableService: tableService,
	}
}

// GetCart handles GET /v1/tables/:tableNumber/cart
func (h *CartHandlers) GetCart(c echo.Context) error {
	tableNumber, ok, err := h.resolveTable(c)
	if !ok {
		return err
	}
	current, err := h.cartStore.Get(c.Request().Context(), tableNumber)
	if err != nil {
		c.Logger().Errorf("loading cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error loading cart")
	}
	return c.JSON(http.StatusOK, cartResponse(current))
}

// AddItem handles POST /v1/tables/:tableNumber/cart, adding one unit of a
// menu item. Repeating the call increments the existing entry.
func (h *CartHandlers) AddItem(c echo.Context) error {
	tableNumber, ok, err := h.resolveTable(c)
	if !ok {
		return err
	}

	var req struct {
		MenuItemID string  `json:"menu_item_id"`
		Notes      *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	menuItemID, err := common.ValidateUUID(req.MenuItemID, "menu_item_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := common.ValidateOptionalString(req.Notes, "notes", 500); err != nil {
		return common.SendValidationError(c, "notes", err.Error())
	}

	ctx := c.Request().Context()
	menuItem, err := h.menuService.GetMenuItem(ctx, menuItemID)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Menu item")
	}
	if err != nil {
		c.Logger().Errorf("loading menu item %s: %v", menuItemID, err)
		return common.SendServerError(c, "Error loading menu item")
	}
	if !menuItem.Available {
		return common.SendConflictError(c, "Menu item is not available")
	}

	current, err := h.cartStore.Get(ctx, tableNumber)
	if err != nil {
		c.Logger().Errorf("loading cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error loading cart")
	}
	entry := current.Add(menuItem)
	if req.Notes != nil {
		entry.Notes = req.Notes
	}
	if err := h.cartStore.Save(ctx, current); err != nil {
		c.Logger().Errorf("saving cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error saving cart")
	}
	return c.JSON(http.StatusOK, cartResponse(current))
}

// UpdateItem handles PATCH /v1/tables/:tableNumber/cart/items/:itemID
func (h *CartHandlers) UpdateItem(c echo.Context) error {
	tableNumber, ok, err := h.resolveTable(c)
	if !ok {
		return err
	}
	itemID, err := common.ValidateUUID(c.Param("itemID"), "itemID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	// Quantities below 1 are a deliberate no-op; removal is its own call.
	if err := common.ValidatePositiveInteger(req.Quantity, "quantity", 999); err != nil {
		return common.SendValidationError(c, "quantity", err.Error())
	}

	ctx := c.Request().Context()
	current, err := h.cartStore.Get(ctx, tableNumber)
	if err != nil {
		c.Logger().Errorf("loading cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error loading cart")
	}
	if !current.UpdateQuantity(itemID, req.Quantity) {
		return common.SendNotFoundError(c, "Cart item")
	}
	if err := h.cartStore.Save(ctx, current); err != nil {
		c.Logger().Errorf("saving cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error saving cart")
	}
	return c.JSON(http.StatusOK, cartResponse(current))
}

// RemoveItem handles DELETE /v1/tables/:tableNumber/cart/items/:itemID
func (h *CartHandlers) RemoveItem(c echo.Context) error {
	tableNumber, ok, err := h.resolveTable(c)
	if !ok {
		return err
	}
	itemID, err := common.ValidateUUID(c.Param("itemID"), "itemID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	ctx := c.Request().Context()
	current, err := h.cartStore.Get(ctx, tableNumber)
	if err != nil {
		c.Logger().Errorf("loading cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error loading cart")
	}
	if !current.Remove(itemID) {
		return common.SendNotFoundError(c, "Cart item")
	}
	if err := h.cartStore.Save(ctx, current); err != nil {
		c.Logger().Errorf("saving cart for table %s: %v", tableNumber, err)
		return common.SendServerError(c, "Error saving cart")
	}
	return c.JSON(http.StatusOK, cartResponse(current))
}

// resolveTable validates the routing key and confirms the table exists.
// When ok is false an error response has already been sent and err carries
// its write result; the handler must stop.
func (h *CartHandlers) resolveTable(c echo.Context) (tableNumber string, ok bool, err error) {
	tableNumber = c.Param("tableNumber")
	if err := common.ValidateTableNumber(tableNumber); err != nil {
		return "", false, common.SendClientError(c, err.Error())
	}
	_, err = h.tableService.GetTableByNumber(c.Request().Context(), tableNumber)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, common.SendNotFoundError(c, "Table")
	}
	if err != nil {
		c.Logger().Errorf("looking up table %s: %v", tableNumber, err)
		return "", false, common.SendServerError(c, "Error loading table")
	}
	return tableNumber, true, nil
}

func cartResponse(current *cart.Cart) map[string]interface{} {
	items := current.Items
	if items == nil {
		items = []*cart.Item{}
	}
	return map[string]interface{}{
		"table_number": current.TableNumber,
		"items":        items,
		"total":        current.Total(),
		"size":         current.Size(),
	}
}
