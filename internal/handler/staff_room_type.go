package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// CreateRoomType handles POST /v1/hotels/:id/room-types.
func (h *StaffHandler) CreateRoomType(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name          string  `json:"name"`
		Description   *string `json:"description"`
		TotalRooms    int     `json:"total_rooms"`
		BaseRateCents int64   `json:"base_rate_cents"`
		Currency      string  `json:"currency"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.TotalRooms <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_rooms must be positive"})
	}
	if body.BaseRateCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_rate_cents must not be negative"})
	}
	currency := strings.ToUpper(strings.TrimSpace(body.Currency))
	if currency == "" {
		currency = "USD"
	}
	if _, err := h.Hotels.GetByID(c.Request().Context(), hotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	rt := &model.RoomType{
		HotelID:       hotelID,
		Name:          name,
		Description:   body.Description,
		TotalRooms:    body.TotalRooms,
		BaseRateCents: body.BaseRateCents,
		Currency:      currency,
	}
	if err := h.RoomTypes.Create(c.Request().Context(), rt); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create room type"})
	}
	return c.JSON(http.StatusCreated, rt)
}

// ListRoomTypes handles GET /v1/hotels/:id/room-types.
func (h *StaffHandler) ListRoomTypes(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.RoomTypes.ListByHotel(c.Request().Context(), hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UpdateRoomType handles PUT/PATCH /v1/hotels/:id/room-types/:type_id.
// Changing total_rooms only affects inventory rows created afterwards;
// existing day rows keep the capacity they were created with.
func (h *StaffHandler) UpdateRoomType(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	typeID, err := pathID(c, "type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name          *string `json:"name"`
		Description   *string `json:"description"`
		TotalRooms    *int    `json:"total_rooms"`
		BaseRateCents *int64  `json:"base_rate_cents"`
		Currency      *string `json:"currency"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rt, err := h.RoomTypes.GetByID(c.Request().Context(), typeID)
	if err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rt.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
		}
		rt.Name = name
	}
	if body.Description != nil {
		rt.Description = body.Description
	}
	if body.TotalRooms != nil {
		if *body.TotalRooms <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_rooms must be positive"})
		}
		rt.TotalRooms = *body.TotalRooms
	}
	if body.BaseRateCents != nil {
		if *body.BaseRateCents < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_rate_cents must not be negative"})
		}
		rt.BaseRateCents = *body.BaseRateCents
	}
	if body.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*body.Currency))
		if cur == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "currency must not be empty"})
		}
		rt.Currency = cur
	}
	if err := h.RoomTypes.UpdateByIDAndHotel(c.Request().Context(), rt); err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, rt)
}
