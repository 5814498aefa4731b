package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// Roles the identity collaborator supplies. Elevated roles may auto-apply
// manual adjustments and returns.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// ErrorResponse is the standardized error envelope.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// CreateErrorResponse creates a standardized error response.
func CreateErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// SendError maps a ledger error to its HTTP status and envelope.
func SendError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return c.JSON(http.StatusBadRequest, CreateErrorResponse("VALIDATION_ERROR", err.Error(), nil))
	case errors.Is(err, ErrNotFound):
		return c.JSON(http.StatusNotFound, CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, ErrInsufficientStock):
		return c.JSON(http.StatusConflict, CreateErrorResponse("INSUFFICIENT_STOCK", err.Error(), nil))
	case errors.Is(err, ErrConflict):
		return c.JSON(http.StatusConflict, CreateErrorResponse("CONFLICT", err.Error(), nil))
	case errors.Is(err, ErrConcurrency):
		return c.JSON(http.StatusServiceUnavailable, CreateErrorResponse("RETRY", err.Error(), nil))
	default:
		return c.JSON(http.StatusInternalServerError, CreateErrorResponse("SERVER_ERROR", "operation could not be completed", nil))
	}
}

// ValidateUUID validates UUID path or body fields.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", ErrValidation, fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid UUID", ErrValidation, fieldName)
	}
	return id, nil
}

// ValidatePositiveQuantity guards quantity fields before any lock is taken.
func ValidatePositiveQuantity(value int, fieldName string) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrValidation, fieldName)
	}
	if value > 1000000 {
		return fmt.Errorf("%w: %s cannot exceed 1,000,000 units", ErrValidation, fieldName)
	}
	return nil
}

// GetUserIDFromContext extracts the acting user's id from the request context.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserRoleFromContext extracts the acting user's role from the request context.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// ElevatedRole reports whether the role may use privileged auto-apply shortcuts.
func ElevatedRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}
