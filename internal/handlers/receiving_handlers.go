package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/services"

	"github.com/labstack/echo/v4"
)

type ReceivingHandlers struct {
	receivingService services.ReceivingService
}

func NewReceivingHandlers(receivingService services.ReceivingService) *ReceivingHandlers {
	return &ReceivingHandlers{receivingService: receivingService}
}

// ReceivePurchaseOrderRequest records one delivery against a purchase order.
type ReceivePurchaseOrderRequest struct {
	Lines      []services.ReceiveLineInput `json:"lines"`
	CloseOrder bool                        `json:"close_order"`
}

// ReceivePurchaseOrder handles POST /purchase-orders/:id/receive.
func (h *ReceivingHandlers) ReceivePurchaseOrder(c echo.Context) error {
	userID, _, err := actor(c)
	if err != nil {
		return err
	}
	orderID, err := common.ValidateUUID(c.Param("id"), "purchase order id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req ReceivePurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.receivingService.ReceivePurchaseOrder(c.Request().Context(), services.ReceiveParams{
		PurchaseOrderID: orderID,
		Lines:           req.Lines,
		CloseOrder:      req.CloseOrder,
		ReceivedBy:      userID,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// GetStockIn handles GET /stockins/:id.
func (h *ReceivingHandlers) GetStockIn(c echo.Context) error {
	stockInID, err := common.ValidateUUID(c.Param("id"), "stock-in id")
	if err != nil {
		return common.SendError(c, err)
	}

	rec, err := h.receivingService.GetStockIn(c.Request().Context(), stockInID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, rec)
}
