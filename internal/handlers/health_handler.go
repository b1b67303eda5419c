package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/solucionalbania/club-api/internal/dto"
)

// Pinger reports whether the backing store is reachable. A nil Pinger means
// there is nothing to check.
type Pinger func() error

type HealthHandler struct {
	ping Pinger
}

func NewHealthHandler(ping Pinger) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(dto.StatusResponse{
		Message: "Solucion Albania Club API",
		Status:  "online",
	})
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if h.ping != nil {
		if err := h.ping(); err != nil {
			slog.Error("health check: database ping failed", "error", err)
			dbStatus = "unhealthy"
		}
	}

	return c.JSON(dto.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        dbStatus,
	})
}
