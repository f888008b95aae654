package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
)

// RegisterStaff registers STAFF-scoped administration endpoints under
// /v1. All routes require a valid JWT and the STAFF role.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF"),
	)

	// ---- Hotels ----
	g.POST("/hotels", s.CreateHotel)
	// NOTE: Listing hotels is handled by the public browse API to avoid
	// route conflicts with the public /v1/hotels handler.
	g.GET("/hotels/:id", s.GetHotel)
	g.PUT("/hotels/:id", s.UpdateHotel)
	g.PATCH("/hotels/:id", s.UpdateHotel)

	// ---- Room types ----
	g.POST("/hotels/:id/room-types", s.CreateRoomType)
	// NOTE: Listing room types is served by the public browse API.
	g.PUT("/hotels/:id/room-types/:type_id", s.UpdateRoomType)
	g.PATCH("/hotels/:id/room-types/:type_id", s.UpdateRoomType)

	// ---- Rooms ----
	g.POST("/hotels/:id/rooms", s.CreateRooms)
	g.GET("/hotels/:id/rooms", s.ListRooms)
	g.DELETE("/hotels/:id/rooms/:room_id", s.DeleteRoom)

	// ---- Rates ----
	g.PUT("/hotels/:id/room-types/:type_id/rates", s.UpsertRates)
	g.GET("/hotels/:id/room-types/:type_id/rates", s.ListRates)

	// ---- Inventory ----
	g.GET("/hotels/:id/room-types/:type_id/inventory", s.GetInventory)
	g.POST("/hotels/:id/room-types/:type_id/blocks", s.AdjustBlocked)
}

// RegisterStaffReservations registers routes that allow staff to manage
// reservations. All routes are mounted under /v1 and require a JWT
// token as well as the STAFF role.
func RegisterStaffReservations(e *echo.Echo, h *handler.StaffReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STAFF"),
	)
	g.GET("/hotels/:id/reservations", h.ListReservations)
	g.GET("/hotels/:id/reservations/:res_id", h.GetReservation)
	g.PATCH("/hotels/:id/reservations/:res_id", h.ModifyReservation)
	g.POST("/hotels/:id/reservations/:res_id/upgrade-eligibility", h.MarkUpgradeEligible)
	g.POST("/hotels/:id/reservations/:res_id/upgrade", h.ApplyUpgrade)
	g.POST("/hotels/:id/reservations/:res_id/check-in", h.CheckIn)
	g.POST("/hotels/:id/reservations/:res_id/check-out", h.CheckOut)
	g.POST("/hotels/:id/reservations/:res_id/cancel", h.Cancel)
}
