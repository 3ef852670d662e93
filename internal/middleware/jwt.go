package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context under "user_id".
// This is the blanket permission stage: it runs before any resource is
// loaded, so unauthenticated mutating requests never touch the database.
// Refresh tokens are rejected here because of their "typ" claim.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   "token_invalid",
					"message": "missing bearer token",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.ParseToken(secret, raw, utils.TokenTypeAccess)
			if err != nil {
				kind := "token_invalid"
				if errors.Is(err, utils.ErrTokenExpired) {
					kind = "token_expired"
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error":   kind,
					"message": "invalid or expired token",
				})
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user's id set by JWTAuth. The second
// return is false on routes that did not run the middleware.
func UserID(c echo.Context) (string, bool) {
	uid, ok := c.Get("user_id").(string)
	return uid, ok && uid != ""
}
