package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AdjustmentHandlers struct {
	adjustmentService services.AdjustmentService
}

func NewAdjustmentHandlers(adjustmentService services.AdjustmentService) *AdjustmentHandlers {
	return &AdjustmentHandlers{adjustmentService: adjustmentService}
}

// RequestAdjustmentRequest proposes a new absolute warehouse quantity against
// the quantity the client last saw.
type RequestAdjustmentRequest struct {
	ProductID   uuid.UUID `json:"product_id"`
	OldQuantity int       `json:"old_quantity"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
	AutoApply   bool      `json:"auto_apply"`
}

// RequestAdjustment handles POST /adjustments.
func (h *AdjustmentHandlers) RequestAdjustment(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}

	var req RequestAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.adjustmentService.RequestAdjustment(c.Request().Context(), services.RequestAdjustmentParams{
		ProductID:   req.ProductID,
		OldQuantity: req.OldQuantity,
		NewQuantity: req.NewQuantity,
		Reason:      req.Reason,
		AutoApply:   req.AutoApply,
		RequestedBy: userID,
		Role:        role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// ResolveAdjustmentRequest approves or rejects a pending request.
type ResolveAdjustmentRequest struct {
	Approve bool    `json:"approve"`
	Notes   *string `json:"notes"`
}

// ResolveAdjustment handles POST /adjustments/:id/resolve.
func (h *AdjustmentHandlers) ResolveAdjustment(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}
	requestID, err := common.ValidateUUID(c.Param("id"), "adjustment id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req ResolveAdjustmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.adjustmentService.ResolveAdjustment(c.Request().Context(), services.ResolveAdjustmentParams{
		RequestID:  requestID,
		Approve:    req.Approve,
		Notes:      req.Notes,
		ResolvedBy: userID,
		Role:       role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetAdjustment handles GET /adjustments/:id.
func (h *AdjustmentHandlers) GetAdjustment(c echo.Context) error {
	requestID, err := common.ValidateUUID(c.Param("id"), "adjustment id")
	if err != nil {
		return common.SendError(c, err)
	}

	result, err := h.adjustmentService.GetAdjustment(c.Request().Context(), requestID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListPendingRequest represents query parameters for the pending queue.
type ListPendingRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListPending handles GET /adjustments/pending.
func (h *AdjustmentHandlers) ListPending(c echo.Context) error {
	var req ListPendingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	results, err := h.adjustmentService.ListPending(c.Request().Context(), req.Limit, req.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"adjustments": results,
		"limit":       req.Limit,
		"offset":      req.Offset,
	})
}
