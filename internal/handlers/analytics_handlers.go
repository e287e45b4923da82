package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tableside/internal/analytics"
	"tableside/internal/common"
)

type AnalyticsHandlers struct {
	analyticsService *analytics.Service
}

func NewAnalyticsHandlers(analyticsService *analytics.Service) *AnalyticsHandlers {
	return &AnalyticsHandlers{analyticsService: analyticsService}
}

// Summary handles GET /v1/analytics/summary (admin)
func (h *AnalyticsHandlers) Summary(c echo.Context) error {
	summary, err := h.analyticsService.Summary(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("loading analytics summary: %v", err)
		return common.SendServerError(c, "Error loading analytics summary")
	}
	return c.JSON(http.StatusOK, summary)
}
