package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// UpsertRates handles PUT /v1/hotels/:id/room-types/:type_id/rates.
// The body carries a list of {date, price_cents} entries; existing
// rows for the same night are overwritten.
func (h *StaffHandler) UpsertRates(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	typeID, err := pathID(c, "type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Rates []struct {
			Date       string `json:"date"`
			PriceCents int64  `json:"price_cents"`
		} `json:"rates"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Rates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rates is required"})
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

	ctx := c.Request().Context()
	count := 0
	for _, entry := range body.Rates {
		day, err := parseDate(entry.Date)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date: " + entry.Date})
		}
		if entry.PriceCents < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_cents must not be negative"})
		}
		nr := &model.NightlyRate{
			HotelID:    hotelID,
			RoomTypeID: typeID,
			StayDate:   day,
			PriceCents: entry.PriceCents,
		}
		if err := h.Rates.Upsert(ctx, nr); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save rates"})
		}
		count++
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": count})
}

// ListRates handles GET /v1/hotels/:id/room-types/:type_id/rates with
// required ?from= and ?to= query parameters (to is exclusive).
func (h *StaffHandler) ListRates(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	typeID, err := pathID(c, "type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := parseDate(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
	}
	items, err := h.Rates.ListByRange(c.Request().Context(), hotelID, typeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]echo.Map, 0, len(items))
	for _, nr := range items {
		out = append(out, echo.Map{
			"date":        nr.StayDate.Format(dateLayout),
			"price_cents": nr.PriceCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
