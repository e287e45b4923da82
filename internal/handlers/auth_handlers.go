package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tableside/internal/common"
	"tableside/internal/services"
)

// AuthHandlers handles staff login and identity lookups.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Login handles POST /v1/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Username, "username"); err != nil {
		return common.SendValidationError(c, "username", err.Error())
	}
	if err := common.ValidateRequiredString(req.Password, "password"); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}

	token, staff, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return common.SendUnauthorizedError(c)
	}
	if err != nil {
		c.Logger().Errorf("login failed: %v", err)
		return common.SendServerError(c, "Error logging in")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"staff": staff,
	})
}

// Me handles GET /v1/me
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()
	staffID, ok := common.GetStaffIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	staff, err := h.authService.GetStaff(ctx, staffID)
	if err != nil {
		c.Logger().Errorf("loading staff %s: %v", staffID, err)
		return common.SendServerError(c, "Error loading account")
	}
	return c.JSON(http.StatusOK, staff)
}
