package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"tableside/internal/common"
	"tableside/internal/models"
	"tableside/internal/services"
)

// MenuHandlers handles the customer-facing menu and the admin catalog panel.
type MenuHandlers struct {
	menuService services.MenuServiceInterface
}

func NewMenuHandlers(menuService services.MenuServiceInterface) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

type menuItemRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
}

// validate names the first failing field, empty when the payload is valid.
func (r *menuItemRequest) validate() (field string, err error) {
	if err := common.ValidateRequiredString(r.Name, "name"); err != nil {
		return "name", err
	}
	if err := common.ValidateRequiredString(r.Category, "category"); err != nil {
		return "category", err
	}
	if err := common.ValidateNonNegativeFloat(r.Price, "price", 100000.0); err != nil {
		return "price", err
	}
	return "", nil
}

// AvailableMenu handles GET /v1/tables/:tableNumber/menu, the order-entry
// surface. Only available items are returned, grouped by category.
func (h *MenuHandlers) AvailableMenu(c echo.Context) error {
	categories, err := h.menuService.AvailableMenu(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("loading menu: %v", err)
		return common.SendServerError(c, "Error loading menu")
	}
	if categories == nil {
		categories = []*models.MenuCategory{}
	}
	return c.JSON(http.StatusOK, categories)
}

// ListMenuItems handles GET /v1/menu (admin; includes unavailable items)
func (h *MenuHandlers) ListMenuItems(c echo.Context) error {
	items, err := h.menuService.ListMenuItems(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("listing menu items: %v", err)
		return common.SendServerError(c, "Error loading menu items")
	}
	if items == nil {
		items = []*models.MenuItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// GetMenuItem handles GET /v1/menu/:id
func (h *MenuHandlers) GetMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	item, err := h.menuService.GetMenuItem(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Menu item")
	}
	if err != nil {
		c.Logger().Errorf("loading menu item %s: %v", id, err)
		return common.SendServerError(c, "Error loading menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// CreateMenuItem handles POST /v1/menu
func (h *MenuHandlers) CreateMenuItem(c echo.Context) error {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if field, err := req.validate(); err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	item := &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	}
	if err := h.menuService.CreateMenuItem(c.Request().Context(), item); err != nil {
		c.Logger().Errorf("creating menu item: %v", err)
		return common.SendServerError(c, "Error saving menu item")
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateMenuItem handles PUT /v1/menu/:id
func (h *MenuHandlers) UpdateMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if field, err := req.validate(); err != nil {
		return common.SendValidationError(c, field, err.Error())
	}

	item := &models.MenuItem{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Available:   req.Available,
	}
	err = h.menuService.UpdateMenuItem(c.Request().Context(), item)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Menu item")
	}
	if err != nil {
		c.Logger().Errorf("updating menu item %s: %v", id, err)
		return common.SendServerError(c, "Error saving menu item")
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteMenuItem handles DELETE /v1/menu/:id
func (h *MenuHandlers) DeleteMenuItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	err = h.menuService.DeleteMenuItem(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Menu item")
	}
	if err != nil {
		c.Logger().Errorf("deleting menu item %s: %v", id, err)
		return common.SendServerError(c, "Error deleting menu item")
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadItemImage handles POST /v1/menu/:id/image (multipart form, "image"
// field). The stored image URL is returned.
func (h *MenuHandlers) UploadItemImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return common.SendClientError(c, "Missing image file")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return common.SendClientError(c, "Unreadable image file")
	}
	defer file.Close()

	imageURL, err := h.menuService.UploadItemImage(
		c.Request().Context(),
		id,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Menu item")
	}
	if err != nil {
		c.Logger().Errorf("uploading image for menu item %s: %v", id, err)
		return common.SendServerError(c, "Error uploading image")
	}
	return c.JSON(http.StatusOK, map[string]string{"image_url": imageURL})
}
