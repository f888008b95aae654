package model

import "time"

// NightlyRate is a date-specific price for one night in a room type.
// When no row exists for a night, pricing falls back to the room
// type's base rate.
type NightlyRate struct {
	ID         uint64    // room_rates.id
	HotelID    uint64    // room_rates.hotel_id
	RoomTypeID uint64    // room_rates.room_type_id
	StayDate   time.Time // room_rates.stay_date (UTC midnight)
	PriceCents int64     // room_rates.price_cents
	CreatedAt  time.Time // room_rates.created_at
	UpdatedAt  time.Time // room_rates.updated_at
}
