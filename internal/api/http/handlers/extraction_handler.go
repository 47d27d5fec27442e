package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/api/dto"
	"github.com/spec-kit/ticket-intel/internal/service"
	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// ExtractionHandler exposes summary generation and follow-up questions.
type ExtractionHandler struct {
	extraction *service.ExtractionService
	followup   *service.FollowupService
}

// NewExtractionHandler constructs the handler.
func NewExtractionHandler(extraction *service.ExtractionService, followup *service.FollowupService) *ExtractionHandler {
	return &ExtractionHandler{extraction: extraction, followup: followup}
}

// Summarize handles POST /tickets/:id/summary. Refresh can be requested via
// query parameter or request body and forces regeneration past the cache.
func (h *ExtractionHandler) Summarize(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id is required", nil)
	}
	refresh := c.QueryBool("refresh", false)
	if len(c.Body()) > 0 {
		var req dto.SummaryRequest
		if err := c.BodyParser(&req); err == nil && req.Refresh {
			refresh = true
		}
	}

	result, err := h.extraction.Summarize(c.UserContext(), ticketID, refresh)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Question handles POST /tickets/:id/questions.
func (h *ExtractionHandler) Question(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id is required", nil)
	}

	var req dto.FollowupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid request body", map[string]any{"parse_error": err.Error()})
	}

	result, err := h.followup.Answer(c.UserContext(), ticketID, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
