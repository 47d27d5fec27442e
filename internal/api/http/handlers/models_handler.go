package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/api/dto"
	"github.com/spec-kit/ticket-intel/internal/llm"
)

// ModelLister enumerates models available on the local server.
type ModelLister interface {
	ListModels(ctx context.Context) ([]llm.ModelInfo, error)
}

// ModelsHandler exposes model discovery. The hosted backend has a fixed,
// configured model; only the local server supports live listing.
type ModelsHandler struct {
	backend     string
	lister      ModelLister
	hostedModel string
}

// NewModelsHandler constructs the handler. lister is nil for the hosted
// backend.
func NewModelsHandler(backend string, lister ModelLister, hostedModel string) *ModelsHandler {
	return &ModelsHandler{backend: backend, lister: lister, hostedModel: hostedModel}
}

// List handles GET /models.
func (h *ModelsHandler) List(c *fiber.Ctx) error {
	if h.lister == nil {
		return c.JSON(dto.ModelsResponse{
			Backend: h.backend,
			Models:  []dto.ModelItem{{Name: h.hostedModel}},
		})
	}

	models, err := h.lister.ListModels(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ModelItem, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ModelItem{Name: m.Name, Size: m.Size})
	}
	return c.JSON(dto.ModelsResponse{Backend: h.backend, Models: items})
}
