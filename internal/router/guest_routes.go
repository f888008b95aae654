package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterGuest registers guest-scoped endpoints under /v1. All routes
// require a valid JWT and the GUEST role. Guests can book a room type,
// view their own reservations, move their stay dates and cancel.
func RegisterGuest(e *echo.Echo, h *handler.GuestReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("GUEST"),
	)
	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListMyReservations)
	g.GET("/reservations/:id", h.GetMyReservation)
	g.PATCH("/reservations/:id", h.ModifyMyReservation)
	g.DELETE("/reservations/:id", h.CancelMyReservation)
}
