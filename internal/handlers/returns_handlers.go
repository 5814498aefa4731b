package handlers

import (
	"net/http"

	"retailstock/internal/common"
	"retailstock/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ReturnsHandlers struct {
	returnsService services.ReturnsService
}

func NewReturnsHandlers(returnsService services.ReturnsService) *ReturnsHandlers {
	return &ReturnsHandlers{returnsService: returnsService}
}

// CreateCustomerReturnRequest opens a return against a sale line.
type CreateCustomerReturnRequest struct {
	SaleItemID uuid.UUID `json:"sale_item_id"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	ReturnType string    `json:"return_type"`
}

// CreateCustomerReturn handles POST /returns/customer.
func (h *ReturnsHandlers) CreateCustomerReturn(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}

	var req CreateCustomerReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.returnsService.CreateCustomerReturn(c.Request().Context(), services.CreateCustomerReturnParams{
		SaleItemID: req.SaleItemID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		ReturnType: req.ReturnType,
		CreatedBy:  userID,
		Role:       role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// DecideReturnRequest approves or rejects a pending return.
type DecideReturnRequest struct {
	Approve  bool    `json:"approve"`
	Comments *string `json:"comments"`
}

// DecideCustomerReturn handles POST /returns/customer/:id/decide.
func (h *ReturnsHandlers) DecideCustomerReturn(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}
	returnID, err := common.ValidateUUID(c.Param("id"), "return id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req DecideReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.returnsService.DecideCustomerReturn(c.Request().Context(), services.DecideReturnParams{
		ReturnID:  returnID,
		Approve:   req.Approve,
		Comments:  req.Comments,
		DecidedBy: userID,
		Role:      role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetCustomerReturn handles GET /returns/customer/:id.
func (h *ReturnsHandlers) GetCustomerReturn(c echo.Context) error {
	returnID, err := common.ValidateUUID(c.Param("id"), "return id")
	if err != nil {
		return common.SendError(c, err)
	}

	result, err := h.returnsService.GetCustomerReturn(c.Request().Context(), returnID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// CreateSupplierReturnRequest opens a return against a received stock-in line.
type CreateSupplierReturnRequest struct {
	StockInID  uuid.UUID `json:"stock_in_id"`
	Quantity   int       `json:"quantity"`
	Reason     string    `json:"reason"`
	ReturnType string    `json:"return_type"`
}

// CreateSupplierReturn handles POST /returns/supplier.
func (h *ReturnsHandlers) CreateSupplierReturn(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}

	var req CreateSupplierReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.returnsService.CreateSupplierReturn(c.Request().Context(), services.CreateSupplierReturnParams{
		StockInID:  req.StockInID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		ReturnType: req.ReturnType,
		CreatedBy:  userID,
		Role:       role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, result)
}

// DecideSupplierReturn handles POST /returns/supplier/:id/decide.
func (h *ReturnsHandlers) DecideSupplierReturn(c echo.Context) error {
	userID, role, err := actor(c)
	if err != nil {
		return err
	}
	returnID, err := common.ValidateUUID(c.Param("id"), "return id")
	if err != nil {
		return common.SendError(c, err)
	}

	var req DecideReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	result, err := h.returnsService.DecideSupplierReturn(c.Request().Context(), services.DecideReturnParams{
		ReturnID:  returnID,
		Approve:   req.Approve,
		Comments:  req.Comments,
		DecidedBy: userID,
		Role:      role,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetSupplierReturn handles GET /returns/supplier/:id.
func (h *ReturnsHandlers) GetSupplierReturn(c echo.Context) error {
	returnID, err := common.ValidateUUID(c.Param("id"), "return id")
	if err != nil {
		return common.SendError(c, err)
	}

	result, err := h.returnsService.GetSupplierReturn(c.Request().Context(), returnID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
