package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/api/dto"
	"github.com/spec-kit/ticket-intel/internal/prompt"
)

// TemplateHandler exposes prompt templates.
type TemplateHandler struct {
	active string
}

// NewTemplateHandler constructs the handler. active is the template currently
// in use, which may be a configured override of the default.
func NewTemplateHandler(active string) *TemplateHandler {
	if active == "" {
		active = prompt.DefaultTemplate
	}
	return &TemplateHandler{active: active}
}

// Default handles GET /prompt-template/default.
func (h *TemplateHandler) Default(c *fiber.Ctx) error {
	return c.JSON(dto.TemplateResponse{Template: prompt.DefaultTemplate})
}

// Active handles GET /prompt-template.
func (h *TemplateHandler) Active(c *fiber.Ctx) error {
	return c.JSON(dto.TemplateResponse{Template: h.active})
}
