// Package handler holds the gateway's echo handlers.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"farmview-proxy/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
	routes  int
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version, routes []Route) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v, routes: len(routes)}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type statusResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	FarmCoreURL  string `json:"farm_core_url"`
	Routes       int    `json:"routes"`
	DefaultMS    int    `json:"default_timeout_ms"`
	PowerMS      int    `json:"power_timeout_ms"`
	MigrationsMS int    `json:"migrations_timeout_ms"`
}

// Status returns gateway status information.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status:       "ok",
		Version:      string(h.version),
		FarmCoreURL:  h.cfg.FarmCore.BaseURL,
		Routes:       h.routes,
		DefaultMS:    h.cfg.Timeouts.DefaultMS,
		PowerMS:      h.cfg.Timeouts.PowerMS,
		MigrationsMS: h.cfg.Timeouts.MigrationsMS,
	})
}
