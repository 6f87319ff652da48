package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/sla"
)

// WatchdogHandler exposes the SLA watchdog's out-of-band surface: manual
// tick trigger and status counters.
type WatchdogHandler struct {
	watchdog *sla.Watchdog
	metrics  *observability.Metrics
}

// NewWatchdogHandler constructs handler.
func NewWatchdogHandler(watchdog *sla.Watchdog, metrics *observability.Metrics) *WatchdogHandler {
	return &WatchdogHandler{watchdog: watchdog, metrics: metrics}
}

// Tick POST /internal/sla/tick — runs one scan cycle immediately.
func (h *WatchdogHandler) Tick(c *fiber.Ctx) error {
	result, err := h.watchdog.Tick(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Status GET /internal/sla/status.
func (h *WatchdogHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"running":  h.watchdog.Running(),
		"counters": h.metrics.Watchdog(),
	}})
}
