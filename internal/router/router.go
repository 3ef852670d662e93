package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication and profile routes. Register,
// login and token refresh are public; the /auth/me endpoints require a valid
// access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/token/refresh", a.Refresh)

	me := g.Group("/me")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("", a.Me)
	me.PATCH("", a.UpdateMe)
	me.POST("/avatar", a.UploadAvatar)
	me.DELETE("/avatar", a.DeleteAvatar)
}
