// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names used as the type discriminator on the reservation.events queue.
const (
	EventReservationCreated  = "reservation.created"
	EventReservationCanceled = "reservation.canceled"
)

// ReservationEvent is published whenever a reservation is created or
// canceled. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database. Type is one of the Event* constants above.
type ReservationEvent struct {
	Type            string  `json:"type"`
	ReservationID   uint64  `json:"reservation_id"`
	UserID          uint64  `json:"user_id"`
	HotelID         uint64  `json:"hotel_id"`
	HotelName       string  `json:"hotel_name"`
	RoomTypeID      uint64  `json:"room_type_id"`
	RoomTypeName    string  `json:"room_type_name"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Nights          int     `json:"nights"`
	NumGuests       int     `json:"num_guests"`
	Currency        string  `json:"currency"`
	PriceTotalCents int64   `json:"price_total_cents"`
	Reason          *string `json:"reason,omitempty"`
	OccurredAt      string  `json:"occurred_at"`
}
