package handler

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/queue"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// buildReservationEvent assembles the broker payload for a reservation.
// Name lookups are best effort; a failed lookup leaves the name empty
// rather than blocking the event.
func buildReservationEvent(ctx context.Context, hotels *repository.HotelRepo, roomTypes *repository.RoomTypeRepo,
	res *model.Reservation, eventType string, reason *string) queue.ReservationEvent {
	ev := queue.ReservationEvent{
		Type:            eventType,
		ReservationID:   res.ID,
		UserID:          res.UserID,
		HotelID:         res.HotelID,
		RoomTypeID:      res.RoomTypeID,
		CheckIn:         res.CheckIn.Format(dateLayout),
		CheckOut:        res.CheckOut.Format(dateLayout),
		Nights:          res.Nights,
		NumGuests:       res.NumGuests,
		Currency:        res.Currency,
		PriceTotalCents: res.PriceTotalCents,
		Reason:          reason,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if h, err := hotels.GetByID(ctx, res.HotelID); err == nil {
		ev.HotelName = h.Name
	}
	if rt, err := roomTypes.GetByID(ctx, res.RoomTypeID); err == nil {
		ev.RoomTypeName = rt.Name
	}
	return ev
}
