package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetInventory handles GET /v1/hotels/:id/room-types/:type_id/inventory
// with required ?from= and ?to= query parameters (to is exclusive). It
// reads whatever day rows exist in the range; dates never touched by a
// reservation or block have no row and are omitted.
func (h *StaffHandler) GetInventory(c echo.Context) error {
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
	days, err := h.Inventory.ListByRange(c.Request().Context(), hotelID, typeID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]echo.Map, 0, len(days))
	for _, d := range days {
		out = append(out, echo.Map{
			"date":        d.StayDate.Format(dateLayout),
			"total_rooms": d.TotalRooms,
			"reserved":    d.Reserved,
			"blocked":     d.Blocked,
			"available":   d.Available,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// AdjustBlocked handles POST /v1/hotels/:id/room-types/:type_id/blocks.
// A positive delta takes rooms out of sale for every date in
// [from, to); a negative delta returns them. The adjustment runs in one
// transaction so a capacity violation on any date rejects the whole
// range.
func (h *StaffHandler) AdjustBlocked(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	typeID, err := pathID(c, "type_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		From  string `json:"from"`
		To    string `json:"to"`
		Delta int    `json:"delta"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	from, err := parseDate(body.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
	}
	to, err := parseDate(body.To)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must be after from"})
	}
	if body.Delta == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "delta must not be zero"})
	}

	ctx := c.Request().Context()
	err = h.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		return h.Engine.AdjustBlocked(ctx, tx, hotelID, typeID, from, to, body.Delta)
	})
	if err != nil {
		return serviceError(c, err, "could not adjust blocked rooms")
	}
	return c.JSON(http.StatusOK, echo.Map{"adjusted": body.Delta})
}
