package middleware

import (
	"context"

	"retailstock/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// JWTCustomClaims carries the acting user's identity. The subject is the user
// id; the role claim decides who may resolve adjustments and returns. Identity
// itself lives in a separate service, this layer only trusts signed claims.
type JWTCustomClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AttachIdentity copies validated claims into the request context. Runs as the
// echo-jwt success handler; malformed subjects leave the context empty and the
// handlers reject the request.
func AttachIdentity(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return
	}
	if claims.Role == "" {
		return
	}

	ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
	ctx = context.WithValue(ctx, common.UserRoleKey, claims.Role)
	c.SetRequest(c.Request().WithContext(ctx))
}
