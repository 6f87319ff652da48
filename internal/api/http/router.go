package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Complaints *handlers.ComplaintsHandler
	Watchdog   *handlers.WatchdogHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	complaints := app.Group("/complaints")
	complaints.Post("/", cfg.Complaints.Create)
	complaints.Get("/", cfg.Complaints.List)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Get("/:id/audit", cfg.Complaints.Audit)
	complaints.Patch("/:id/status", cfg.Complaints.UpdateStatus)
	complaints.Patch("/:id/assign", cfg.Complaints.Assign)

	internal := app.Group("/internal/sla")
	internal.Post("/tick", cfg.Watchdog.Tick)
	internal.Get("/status", cfg.Watchdog.Status)
}
