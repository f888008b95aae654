package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// StaffReservationHandler exposes the reservation desk operations
// available to hotel staff: listing, patching, upgrades, check-in and
// check-out, and cancellation on behalf of a guest.
type StaffReservationHandler struct {
	Service      *service.ReservationService
	Reservations *repository.ReservationRepo
	History      *repository.StatusHistoryRepo
	Hotels       *repository.HotelRepo
	RoomTypes    *repository.RoomTypeRepo
}

func NewStaffReservationHandler(svc *service.ReservationService, reservations *repository.ReservationRepo,
	history *repository.StatusHistoryRepo, hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo) *StaffReservationHandler {
	if svc == nil || reservations == nil || history == nil || hotels == nil || roomTypes == nil {
		panic("nil dependency passed to NewStaffReservationHandler")
	}
	return &StaffReservationHandler{
		Service:      svc,
		Reservations: reservations,
		History:      history,
		Hotels:       hotels,
		RoomTypes:    roomTypes,
	}
}

// ListReservations handles GET /v1/hotels/:id/reservations with
// optional ?status=, ?from= and ?to= filters. The date filter matches
// reservations whose stay overlaps [from, to).
func (h *StaffReservationHandler) ListReservations(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var f repository.ListFilter
	if raw := strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))); raw != "" {
		st := model.Status(raw)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Status = st
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		f.From = from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		f.To = to
	}
	items, err := h.Reservations.ListByHotel(c.Request().Context(), hotelID, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/hotels/:id/reservations/:res_id and
// returns the reservation together with its status history.
func (h *StaffReservationHandler) GetReservation(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, resID)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if res.HotelID != hotelID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	history, err := h.History.ListByReservation(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res, "history": history})
}

type reservationPatch struct {
	RoomTypeID      *uint64 `json:"room_type_id"`
	RoomID          *uint64 `json:"room_id"`
	CheckIn         *string `json:"check_in"`
	CheckOut        *string `json:"check_out"`
	NumGuests       *int    `json:"num_guests"`
	Currency        *string `json:"currency"`
	PriceTotalCents *int64  `json:"price_total_cents"`
	Notes           *string `json:"notes"`
	Status          *string `json:"status"`
	StatusReason    *string `json:"status_reason"`
}

// ModifyReservation handles PATCH /v1/hotels/:id/reservations/:res_id.
// Staff may change every field, including the room type, the assigned
// room and the status.
func (h *StaffReservationHandler) ModifyReservation(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body reservationPatch
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ch := service.Change{
		RoomTypeID:      body.RoomTypeID,
		RoomID:          body.RoomID,
		NumGuests:       body.NumGuests,
		Currency:        body.Currency,
		PriceTotalCents: body.PriceTotalCents,
		Notes:           body.Notes,
		StatusReason:    body.StatusReason,
		ActorID:         &actorID,
	}
	if body.CheckIn != nil {
		d, err := parseDate(*body.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
		}
		ch.CheckIn = &d
	}
	if body.CheckOut != nil {
		d, err := parseDate(*body.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
		}
		ch.CheckOut = &d
	}
	if body.Status != nil {
		st := model.Status(strings.ToUpper(strings.TrimSpace(*body.Status)))
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		ch.Status = &st
	}

	res, err := h.Service.Modify(c.Request().Context(), hotelID, resID, ch, service.StaffPolicy{})
	if err != nil {
		return serviceError(c, err, "could not modify reservation")
	}
	return c.JSON(http.StatusOK, res)
}

// MarkUpgradeEligible handles POST /v1/hotels/:id/reservations/:res_id/upgrade-eligibility.
func (h *StaffReservationHandler) MarkUpgradeEligible(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := h.Service.MarkUpgradeEligible(c.Request().Context(), hotelID, resID)
	if err != nil {
		return serviceError(c, err, "could not mark upgrade eligibility")
	}
	return c.JSON(http.StatusOK, res)
}

// ApplyUpgrade handles POST /v1/hotels/:id/reservations/:res_id/upgrade.
func (h *StaffReservationHandler) ApplyUpgrade(c echo.Context) error {
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		RoomTypeID uint64 `json:"room_type_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type_id is required"})
	}
	res, err := h.Service.ApplyUpgrade(c.Request().Context(), hotelID, resID, body.RoomTypeID, service.StaffPolicy{})
	if err != nil {
		return serviceError(c, err, "could not apply upgrade")
	}
	return c.JSON(http.StatusOK, res)
}

// CheckIn handles POST /v1/hotels/:id/reservations/:res_id/check-in.
func (h *StaffReservationHandler) CheckIn(c echo.Context) error {
	return h.lifecycle(c, h.Service.CheckIn)
}

// CheckOut handles POST /v1/hotels/:id/reservations/:res_id/check-out.
func (h *StaffReservationHandler) CheckOut(c echo.Context) error {
	return h.lifecycle(c, h.Service.CheckOut)
}

func (h *StaffReservationHandler) lifecycle(c echo.Context,
	op func(ctx context.Context, hotelID, reservationID uint64, actorID *uint64) (*model.Reservation, error)) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	res, err := op(c.Request().Context(), hotelID, resID, &actorID)
	if err != nil {
		return serviceError(c, err, "could not change reservation status")
	}
	return c.JSON(http.StatusOK, res)
}

// Cancel handles POST /v1/hotels/:id/reservations/:res_id/cancel. The
// cancellation event is published after the transaction commits;
// publish failures are logged by the queue package and ignored here.
func (h *StaffReservationHandler) Cancel(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	resID, err := pathID(c, "res_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Reason *string `json:"reason"`
	}
	_ = c.Bind(&body)

	ctx := c.Request().Context()
	res, err := h.Service.Cancel(ctx, hotelID, resID, body.Reason, &actorID)
	if err != nil {
		return serviceError(c, err, "could not cancel reservation")
	}
	ev := buildReservationEvent(ctx, h.Hotels, h.RoomTypes, res, queue.EventReservationCanceled, body.Reason)
	_ = queue.PublishReservationEvent(ctx, ev)
	return c.JSON(http.StatusOK, res)
}
