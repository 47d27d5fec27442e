package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Extraction  *handlers.ExtractionHandler
	Maintenance *handlers.MaintenanceHandler
	Models      *handlers.ModelsHandler
	Template    *handlers.TemplateHandler
	Audit       *handlers.AuditHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/:id/summary", cfg.Extraction.Summarize)
	tickets.Post("/:id/questions", cfg.Extraction.Question)

	app.Get("/models", cfg.Models.List)
	app.Get("/prompt-template", cfg.Template.Active)
	app.Get("/prompt-template/default", cfg.Template.Default)

	app.Get("/usage", cfg.Maintenance.Usage)
	app.Delete("/usage", cfg.Maintenance.ResetUsage)
	app.Delete("/cache", cfg.Maintenance.ClearCache)
	app.Delete("/cache/:id", cfg.Maintenance.InvalidateTicket)

	app.Get("/extractions", cfg.Audit.List)
}
