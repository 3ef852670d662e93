package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-marketplace/internal/handler"
	"github.com/iliyamo/rental-marketplace/internal/middleware"
)

// RegisterListings registers the listing catalogue and host management
// routes. Public browse endpoints take the rate limiter and response cache;
// mutations and the host's own view require a valid access token. Echo
// matches static segments before parameters, so /listings/my never collides
// with /listings/:id.
func RegisterListings(e *echo.Echo, l *handler.ListingHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	public := e.Group("/listings", extra...)
	public.GET("", l.List)
	public.GET("/:id", l.Retrieve)
	public.GET("/host/:id", l.ByHost)

	auth := e.Group("/listings")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("", l.CreateListing)
	auth.GET("/my", l.MyListings)
	auth.PUT("/:id", l.UpdateListing)
	auth.PATCH("/:id", l.UpdateListing)
	auth.DELETE("/:id", l.DeleteListing)
}
