package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/repository"
)

// AuditHandler exposes the extraction audit log.
type AuditHandler struct {
	repo *repository.ExtractionRepository
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(repo *repository.ExtractionRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// List handles GET /extractions.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	records, err := h.repo.ListRecent(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"extractions": records})
}
