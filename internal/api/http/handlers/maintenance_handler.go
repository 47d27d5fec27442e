package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-intel/internal/api/dto"
	"github.com/spec-kit/ticket-intel/internal/service"
	apperrors "github.com/spec-kit/ticket-intel/pkg/util/errorutil"
)

// MaintenanceHandler exposes token usage reporting and cache management.
type MaintenanceHandler struct {
	maintenance *service.MaintenanceService
}

// NewMaintenanceHandler constructs the handler.
func NewMaintenanceHandler(maintenance *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

// Usage handles GET /usage.
func (h *MaintenanceHandler) Usage(c *fiber.Ctx) error {
	record, err := h.maintenance.UsageSnapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// ResetUsage handles DELETE /usage.
func (h *MaintenanceHandler) ResetUsage(c *fiber.Ctx) error {
	if err := h.maintenance.ResetUsage(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Status: "usage reset"})
}

// InvalidateTicket handles DELETE /cache/:id.
func (h *MaintenanceHandler) InvalidateTicket(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	if ticketID == "" {
		return apperrors.NewValidationError("ticket id is required", nil)
	}
	if err := h.maintenance.InvalidateTicket(c.UserContext(), ticketID); err != nil {
		return err
	}
	return c.JSON(dto.StatusResponse{Status: "cache entry removed"})
}

// ClearCache handles DELETE /cache.
func (h *MaintenanceHandler) ClearCache(c *fiber.Ctx) error {
	removed, err := h.maintenance.ClearCache(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.CacheClearedResponse{EntriesRemoved: removed})
}
