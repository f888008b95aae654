package handler

// Public, unauthenticated browse endpoints. Responses are sanitized:
// guests see hotel and room type listings plus per-date availability
// and prices, never the raw reserved/blocked counters.

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// PublicHandler bundles the read-only repositories used by guest browsing.
type PublicHandler struct {
	Hotels    *repository.HotelRepo
	RoomTypes *repository.RoomTypeRepo
	Rates     *repository.RateRepo
	Inventory *repository.InventoryRepo
}

func NewPublicHandler(hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo,
	rates *repository.RateRepo, inventory *repository.InventoryRepo) *PublicHandler {
	if hotels == nil || roomTypes == nil || rates == nil || inventory == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Hotels: hotels, RoomTypes: roomTypes, Rates: rates, Inventory: inventory}
}

// GetHotels handles GET /v1/hotels for unauthenticated browsing. Only
// active hotels are listed.
func (p *PublicHandler) GetHotels(c echo.Context) error {
	items, err := p.Hotels.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]echo.Map, 0, len(items))
	for _, h := range items {
		if !h.IsActive {
			continue
		}
		out = append(out, echo.Map{
			"id":   h.ID,
			"name": h.Name,
			"city": h.City,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetHotelRoomTypes handles GET /v1/hotels/:id/room-types for guests.
func (p *PublicHandler) GetHotelRoomTypes(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := p.Hotels.GetByID(c.Request().Context(), hotelID); err != nil {
		if err == repository.ErrHotelNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := p.RoomTypes.ListByHotel(c.Request().Context(), hotelID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]echo.Map, 0, len(items))
	for _, rt := range items {
		out = append(out, echo.Map{
			"id":              rt.ID,
			"name":            rt.Name,
			"description":     rt.Description,
			"base_rate_cents": rt.BaseRateCents,
			"currency":        rt.Currency,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetAvailability handles GET /v1/hotels/:id/room-types/:type_id/availability
// with required ?from= and ?to= query parameters (to is exclusive).
// Dates with no inventory row have never been touched and are reported
// with the full room type capacity. Each entry carries the nightly
// price, falling back to the base rate when no override exists.
func (p *PublicHandler) GetAvailability(c echo.Context) error {
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
	ctx := c.Request().Context()
	rt, err := p.RoomTypes.GetByID(ctx, typeID)
	if err != nil {
		if err == repository.ErrRoomTypeNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if rt.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
	}

	days, err := p.Inventory.ListByRange(ctx, hotelID, typeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	available := make(map[string]int, len(days))
	for _, d := range days {
		available[d.StayDate.Format(dateLayout)] = d.Available
	}
	rates, err := p.Rates.ListByRange(ctx, hotelID, typeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	prices := make(map[string]int64, len(rates))
	for _, nr := range rates {
		prices[nr.StayDate.Format(dateLayout)] = nr.PriceCents
	}

	out := make([]echo.Map, 0)
	for day := from; day.Before(to); day = day.Add(24 * time.Hour) {
		key := day.Format(dateLayout)
		avail, ok := available[key]
		if !ok {
			avail = rt.TotalRooms // no row yet means nothing sold or blocked
		}
		price, ok := prices[key]
		if !ok {
			price = rt.BaseRateCents
		}
		out = append(out, echo.Map{
			"date":        key,
			"available":   avail,
			"price_cents": price,
			"currency":    rt.Currency,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
