package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware. Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh_token body or a bearer header and does
	// not require the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("STAFF", "GUEST"))
	auth.GET("/me", a.Me)

	// Alias so clients can terminate a session at either path.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints. The
// PublicHandler returns sanitized hotel, room type and availability
// data for guests who have not logged in.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/hotels", p.GetHotels)
	e.GET("/v1/hotels/:id/room-types", p.GetHotelRoomTypes)
	// Per-date availability and nightly prices for a room type; the
	// raw reserved/blocked counters stay staff-only.
	e.GET("/v1/hotels/:id/room-types/:type_id/availability", p.GetAvailability)
}
