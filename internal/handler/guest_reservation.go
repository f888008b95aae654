package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
	"github.com/iliyamo/hotel-reservation/internal/service"
)

// GuestReservationHandler exposes the booking operations available to
// guests: creating a reservation, viewing their own reservations and
// canceling them. All methods assume JWT authentication and role
// validation have already run in middleware.
type GuestReservationHandler struct {
	Service      *service.ReservationService
	Reservations *repository.ReservationRepo
	History      *repository.StatusHistoryRepo
	Hotels       *repository.HotelRepo
	RoomTypes    *repository.RoomTypeRepo
}

func NewGuestReservationHandler(svc *service.ReservationService, reservations *repository.ReservationRepo,
	history *repository.StatusHistoryRepo, hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo) *GuestReservationHandler {
	if svc == nil || reservations == nil || history == nil || hotels == nil || roomTypes == nil {
		panic("nil dependency passed to NewGuestReservationHandler")
	}
	return &GuestReservationHandler{
		Service:      svc,
		Reservations: reservations,
		History:      history,
		Hotels:       hotels,
		RoomTypes:    roomTypes,
	}
}

// CreateReservation handles POST /v1/reservations. On success it
// publishes a reservation.created event after the transaction has
// committed; publish failures never fail the request.
func (h *GuestReservationHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		HotelID    uint64  `json:"hotel_id"`
		RoomTypeID uint64  `json:"room_type_id"`
		CheckIn    string  `json:"check_in"`
		CheckOut   string  `json:"check_out"`
		NumGuests  int     `json:"num_guests"`
		Currency   string  `json:"currency"`
		Notes      *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.HotelID == 0 || body.RoomTypeID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hotel_id and room_type_id are required"})
	}
	checkIn, err := parseDate(body.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in date"})
	}
	checkOut, err := parseDate(body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out date"})
	}

	ctx := c.Request().Context()
	res, err := h.Service.Create(ctx, userID, service.CreateRequest{
		HotelID:    body.HotelID,
		RoomTypeID: body.RoomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NumGuests:  body.NumGuests,
		Currency:   body.Currency,
		Notes:      body.Notes,
	})
	if err != nil {
		return serviceError(c, err, "could not create reservation")
	}

	ev := buildReservationEvent(ctx, h.Hotels, h.RoomTypes, res, queue.EventReservationCreated, nil)
	_ = queue.PublishReservationEvent(ctx, ev)

	return c.JSON(http.StatusCreated, res)
}

// ListMyReservations handles GET /v1/my-reservations.
func (h *GuestReservationHandler) ListMyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMyReservation handles GET /v1/reservations/:id. A reservation
// owned by another user yields 403.
func (h *GuestReservationHandler) GetMyReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	history, err := h.History.ListByReservation(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch history"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res, "history": history})
}

// ModifyMyReservation handles PATCH /v1/reservations/:id. Guests may
// move their dates and update guest count or notes; room type, room
// assignment and status changes are rejected by the guest policy.
func (h *GuestReservationHandler) ModifyMyReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}

	var body struct {
		CheckIn   *string `json:"check_in"`
		CheckOut  *string `json:"check_out"`
		NumGuests *int    `json:"num_guests"`
		Notes     *string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ch := service.Change{
		NumGuests: body.NumGuests,
		Notes:     body.Notes,
		ActorID:   &userID,
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

	updated, err := h.Service.Modify(ctx, res.HotelID, resID, ch, service.GuestPolicy{})
	if err != nil {
		return serviceError(c, err, "could not modify reservation")
	}
	return c.JSON(http.StatusOK, updated)
}

// CancelMyReservation handles DELETE /v1/reservations/:id. The guest
// must own the reservation; inventory is released and a
// reservation.canceled event is published best effort.
func (h *GuestReservationHandler) CancelMyReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	res, err := h.Reservations.GetByIDForUser(ctx, resID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}

	var body struct {
		Reason *string `json:"reason"`
	}
	_ = c.Bind(&body)

	canceled, err := h.Service.Cancel(ctx, res.HotelID, resID, body.Reason, &userID)
	if err != nil {
		return serviceError(c, err, "could not cancel reservation")
	}
	ev := buildReservationEvent(ctx, h.Hotels, h.RoomTypes, canceled, queue.EventReservationCanceled, body.Reason)
	_ = queue.PublishReservationEvent(ctx, ev)
	return c.JSON(http.StatusOK, canceled)
}
