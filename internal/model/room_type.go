package model

import "time"

// RoomType describes a bookable category of rooms within a hotel
// (e.g. "Standard Double", "Junior Suite").  Reservations are made
// against a room type, not a concrete room; TotalRooms is the
// capacity copied into inventory rows when a stay date is first
// touched.
//
// Fields:
//  ID            – primary key identifier.
//  HotelID       – hotel that owns this room type.
//  Name          – unique name per hotel.
//  Description   – optional free-form text.
//  TotalRooms    – number of physical rooms of this type.
//  BaseRateCents – fallback nightly price when no date-specific rate exists.
//  Currency      – ISO currency code for the base rate.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type RoomType struct {
	ID            uint64    // room_types.id
	HotelID       uint64    // room_types.hotel_id
	Name          string    // room_types.name
	Description   *string   // room_types.description (nullable)
	TotalRooms    int       // room_types.total_rooms
	BaseRateCents int64     // room_types.base_rate_cents
	Currency      string    // room_types.currency
	CreatedAt     time.Time // room_types.created_at
	UpdatedAt     time.Time // room_types.updated_at
}

// Room is a concrete physical room.  A reservation may optionally be
// pinned to one once staff assign it; until then only the room type
// matters for inventory.
type Room struct {
	ID         uint64    // rooms.id
	HotelID    uint64    // rooms.hotel_id
	RoomTypeID uint64    // rooms.room_type_id
	RoomNumber string    // rooms.room_number
	IsActive   bool      // rooms.is_active
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}
