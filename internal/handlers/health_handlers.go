package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tableside/internal/caching"
	"tableside/internal/repositories"
)

// HealthHandlers exposes liveness and readiness probes.
type HealthHandlers struct {
	db    repositories.DB
	cache caching.CacheService
}

func NewHealthHandlers(db repositories.DB, cache caching.CacheService) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache}
}

// Health handles GET /health. It reports that the process is up.
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /health/ready. It reports whether the process can reach
// its backends.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()

	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	healthy := true

	if _, err := h.db.Exec(ctx, "SELECT 1"); err != nil {
		c.Logger().Errorf("readiness: database check failed: %v", err)
		checks["database"] = "unreachable"
		healthy = false
	}
	if err := h.cache.Ping(ctx); err != nil {
		c.Logger().Errorf("readiness: cache check failed: %v", err)
		checks["cache"] = "unreachable"
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, checks)
}
