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

// TableHandlers handles the admin table panel and the QR display list.
type TableHandlers struct {
	tableService services.TableServiceInterface
}

func NewTableHandlers(tableService services.TableServiceInterface) *TableHandlers {
	return &TableHandlers{tableService: tableService}
}

type tableRequest struct {
	TableNumber string `json:"table_number"`
	Status      string `json:"status"`
}

// ListTables handles GET /v1/tables
func (h *TableHandlers) ListTables(c echo.Context) error {
	tables, err := h.tableService.ListTables(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("listing tables: %v", err)
		return common.SendServerError(c, "Error loading tables")
	}
	if tables == nil {
		tables = []*models.Table{}
	}
	return c.JSON(http.StatusOK, tables)
}

// GetTable handles GET /v1/tables/:id
func (h *TableHandlers) GetTable(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	table, err := h.tableService.GetTable(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if err != nil {
		c.Logger().Errorf("loading table %s: %v", id, err)
		return common.SendServerError(c, "Error loading table")
	}
	return c.JSON(http.StatusOK, table)
}

// CreateTable handles POST /v1/tables
func (h *TableHandlers) CreateTable(c echo.Context) error {
	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateTableNumber(req.TableNumber); err != nil {
		return common.SendValidationError(c, "table_number", err.Error())
	}

	table := &models.Table{
		TableNumber: req.TableNumber,
		Status:      req.Status,
	}
	err := h.tableService.CreateTable(c.Request().Context(), table)
	if errors.Is(err, services.ErrDuplicateTableNumber) {
		return common.SendConflictError(c, err.Error())
	}
	if err != nil {
		c.Logger().Errorf("creating table: %v", err)
		return common.SendServerError(c, "Error saving table")
	}
	return c.JSON(http.StatusCreated, table)
}

// UpdateTable handles PUT /v1/tables/:id
func (h *TableHandlers) UpdateTable(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	var req tableRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateTableNumber(req.TableNumber); err != nil {
		return common.SendValidationError(c, "table_number", err.Error())
	}
	if !models.ValidTableStatus(req.Status) {
		return common.SendValidationError(c, "status", "status must be available or occupied")
	}

	table := &models.Table{
		ID:          id,
		TableNumber: req.TableNumber,
		Status:      req.Status,
	}
	err = h.tableService.UpdateTable(c.Request().Context(), table)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if errors.Is(err, services.ErrDuplicateTableNumber) {
		return common.SendConflictError(c, err.Error())
	}
	if err != nil {
		c.Logger().Errorf("updating table %s: %v", id, err)
		return common.SendServerError(c, "Error saving table")
	}
	return c.JSON(http.StatusOK, table)
}

// DeleteTable handles DELETE /v1/tables/:id
func (h *TableHandlers) DeleteTable(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	err = h.tableService.DeleteTable(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if err != nil {
		c.Logger().Errorf("deleting table %s: %v", id, err)
		return common.SendServerError(c, "Error deleting table")
	}
	return c.NoContent(http.StatusNoContent)
}

// RegenerateQRCode handles POST /v1/tables/:id/qr
func (h *TableHandlers) RegenerateQRCode(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	table, err := h.tableService.RegenerateQRCode(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if err != nil {
		c.Logger().Errorf("regenerating qr for table %s: %v", id, err)
		return common.SendServerError(c, "Error updating QR code")
	}
	return c.JSON(http.StatusOK, table)
}

// ReleaseTable handles POST /v1/tables/:id/release
func (h *TableHandlers) ReleaseTable(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	table, err := h.tableService.ReleaseTable(c.Request().Context(), id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.SendNotFoundError(c, "Table")
	}
	if err != nil {
		c.Logger().Errorf("releasing table %s: %v", id, err)
		return common.SendServerError(c, "Error releasing table")
	}
	return c.JSON(http.StatusOK, table)
}
