package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicdesk/clinic-auth/internal/audit"
	"github.com/clinicdesk/clinic-auth/internal/middleware"
	"github.com/clinicdesk/clinic-auth/internal/validation"
)

type AuditHandler struct {
	auditor *audit.Recorder
}

func NewAuditHandler(auditor *audit.Recorder) *AuditHandler {
	return &AuditHandler{auditor: auditor}
}

type listAuditLogsRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=500"`
	Offset int `query:"offset" validate:"min=0"`
}

// List returns recent audit entries for the caller's clinic, newest first.
// Owner-only; entries from other clinics are never visible.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "not authenticated",
		})
	}

	var req listAuditLogsRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid query parameters",
		})
	}
	if req.Limit == 0 {
		req.Limit = 50
	}
	if err := validation.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validation.Message(err),
		})
	}

	logs, err := h.auditor.ListByClinic(c.Context(), user.ClinicID, req.Limit, req.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"audit_logs": logs,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}
