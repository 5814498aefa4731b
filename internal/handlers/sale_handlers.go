package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/services"

	"github.com/labstack/echo/v4"
)

type SaleHandlers struct {
	saleService services.SaleService
}

func NewSaleHandlers(saleService services.SaleService) *SaleHandlers {
	return &SaleHandlers{saleService: saleService}
}

// CreateSaleRequest is a checkout submitted by a point-of-sale terminal.
type CreateSaleRequest struct {
	Items         []services.SaleLineInput `json:"items"`
	PaymentMethod string                   `json:"payment_method"`
	TerminalID    *string                  `json:"terminal_id"`
}

// CreateSale handles POST /sales.
func (h *SaleHandlers) CreateSale(c echo.Context) error {
	userID, _, err := actor(c)
	if err != nil {
		return err
	}

	var req CreateSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.saleService.CreateSale(c.Request().Context(), services.CreateSaleParams{
		Items:         req.Items,
		PaymentMethod: req.PaymentMethod,
		TerminalID:    req.TerminalID,
		UserID:        userID,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// GetSale handles GET /sales/:id.
func (h *SaleHandlers) GetSale(c echo.Context) error {
	saleID, err := common.ValidateUUID(c.Param("id"), "sale id")
	if err != nil {
		return common.SendError(c, err)
	}

	sale, items, err := h.saleService.GetSale(c.Request().Context(), saleID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sale":  sale,
		"items": items,
	})
}
