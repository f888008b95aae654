package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// CreateRooms handles POST /v1/hotels/:id/rooms. The body carries
// either a single room_number or a list of room_numbers for bulk
// creation; all rooms share the given room type.
func (h *StaffHandler) CreateRooms(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		RoomTypeID  uint64   `json:"room_type_id"`
		RoomNumber  string   `json:"room_number"`
		RoomNumbers []string `json:"room_numbers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id is required"})
	}
	rt, err := h.RoomTypes.GetByID(c.Request().Context(), body.RoomTypeID)
	if err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rt.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
	}

	numbers := body.RoomNumbers
	if n := strings.TrimSpace(body.RoomNumber); n != "" {
		numbers = append(numbers, n)
	}
	seen := make(map[string]struct{}, len(numbers))
	rooms := make([]model.Room, 0, len(numbers))
	for _, n := range numbers {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		rooms = append(rooms, model.Room{
			HotelID:    hotelID,
			RoomTypeID: rt.ID,
			RoomNumber: n,
			IsActive:   true,
		})
	}
	if len(rooms) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no valid room numbers provided"})
	}
	if err := h.Rooms.CreateBulk(c.Request().Context(), rooms); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "room number already exists in this hotel"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create rooms"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(rooms)})
}

// ListRooms handles GET /v1/hotels/:id/rooms with an optional
// ?room_type_id= filter.
func (h *StaffHandler) ListRooms(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var typeID uint64
	if raw := c.QueryParam("room_type_id"); raw != "" {
		typeID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_type_id"})
		}
	}
	items, err := h.Rooms.ListByHotel(c.Request().Context(), hotelID, typeID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// DeleteRoom handles DELETE /v1/hotels/:id/rooms/:room_id.
func (h *StaffHandler) DeleteRoom(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	roomID, err := pathID(c, "room_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Rooms.DeleteByIDAndHotel(c.Request().Context(), roomID, hotelID); err != nil {
		if err == repository.ErrRoomNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
