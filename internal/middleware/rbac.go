package middleware

import (
	"net/http"

	"retailstock/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireElevated gates routes that resolve adjustments or decide returns.
func RequireElevated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetUserRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing role")
			}
			if !common.ElevatedRole(role) {
				return echo.NewHTTPError(http.StatusForbidden, "Requires manager or admin role")
			}
			return next(c)
		}
	}
}
