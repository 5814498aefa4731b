package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/services"

	"github.com/labstack/echo/v4"
)

type AuditLogsHandlers struct {
	auditService services.AuditService
}

func NewAuditLogsHandlers(auditService services.AuditService) *AuditLogsHandlers {
	return &AuditLogsHandlers{auditService: auditService}
}

// ListAuditLogsRequest represents query parameters for the audit trail.
type ListAuditLogsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListByEntity handles GET /audit/:entity/:id.
func (h *AuditLogsHandlers) ListByEntity(c echo.Context) error {
	entity := c.Param("entity")
	entityID := c.Param("id")
	if entity == "" || entityID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Entity and id are required")
	}

	var req ListAuditLogsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	logs, err := h.auditService.ListByEntity(c.Request().Context(), entity, entityID, req.Limit, req.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entity":    entity,
		"entity_id": entityID,
		"logs":      logs,
	})
}
