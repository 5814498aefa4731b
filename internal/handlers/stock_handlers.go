package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/models"
	"retailstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StockHandlers exposes stock levels, direct adjustments and the movement
// ledger over HTTP.
type StockHandlers struct {
	ledger          services.StockLedger
	movementService services.MovementService
}

func NewStockHandlers(ledger services.StockLedger, movementService services.MovementService) *StockHandlers {
	return &StockHandlers{
		ledger:          ledger,
		movementService: movementService,
	}
}

// actor pulls the authenticated user's id and role out of the request context.
func actor(c echo.Context) (uuid.UUID, string, error) {
	ctx := c.Request().Context()
	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "User not found in context")
	}
	role, ok := common.GetUserRoleFromContext(ctx)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "Role not found in context")
	}
	return userID, role, nil
}

// GetStock handles GET /products/:id/stock.
func (h *StockHandlers) GetStock(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendError(c, err)
	}

	level, err := h.ledger.GetStock(c.Request().Context(), productID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

// GetTotalStock handles GET /products/:id/stock/total.
func (h *StockHandlers) GetTotalStock(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendError(c, err)
	}

	total, err := h.ledger.GetTotalStock(c.Request().Context(), productID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product_id":  productID,
		"total_stock": total,
	})
}

// AdjustStockRequest is a direct ledger adjustment for trusted internal
// callers, movement type included.
type AdjustStockRequest struct {
	ProductID   uuid.UUID           `json:"product_id"`
	Delta       int                 `json:"delta"`
	Movement    models.MovementType `json:"movement_type"`
	ReferenceID uuid.UUID           `json:"reference_id"`
	SourceTable string              `json:"source_table"`
	TerminalID  *string             `json:"terminal_id"`
}

// AdjustStock handles POST /stock/adjust.
func (h *StockHandlers) AdjustStock(c echo.Context) error {
	userID, _, err := actor(c)
	if err != nil {
		return err
	}

	var req AdjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	newTotal, err := h.ledger.AdjustStock(c.Request().Context(), services.AdjustParams{
		ProductID:   req.ProductID,
		Delta:       req.Delta,
		ReferenceID: req.ReferenceID,
		Movement:    req.Movement,
		PerformedBy: userID,
		SourceTable: req.SourceTable,
		TerminalID:  req.TerminalID,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product_id":  req.ProductID,
		"total_stock": newTotal,
	})
}

// TransferToDisplayRequest moves stock from the warehouse onto the shop floor.
type TransferToDisplayRequest struct {
	Quantity int `json:"quantity"`
}

// TransferToDisplay handles POST /products/:id/transfer-display.
func (h *StockHandlers) TransferToDisplay(c echo.Context) error {
	userID, _, err := actor(c)
	if err != nil {
		return err
	}
	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req TransferToDisplayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	if err := h.ledger.TransferToDisplay(c.Request().Context(), productID, req.Quantity, userID); err != nil {
		return common.SendError(c, err)
	}

	level, err := h.ledger.GetStock(c.Request().Context(), productID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, level)
}

// ListMovementsRequest represents query parameters for the movement ledger.
type ListMovementsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListMovements handles GET /products/:id/movements.
func (h *StockHandlers) ListMovements(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req ListMovementsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	entries, err := h.movementService.ListMovements(c.Request().Context(), productID, req.Limit, req.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"movements":  entries,
	})
}

// VerifyLedger handles GET /products/:id/ledger-check.
func (h *StockHandlers) VerifyLedger(c echo.Context) error {
	productID, err := common.ValidateUUID(c.Param("id"), "product id")
	if err != nil {
		return common.SendError(c, err)
	}

	check, err := h.movementService.VerifyLedger(c.Request().Context(), productID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, check)
}
