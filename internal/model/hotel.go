package model

import "time"

// Hotel is the top-level property under which room types, rooms and
// reservations live.  Every inventory row and reservation references
// exactly one hotel; ownership checks across the API compare against
// this ID.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the hotel.
//  City      – city the hotel is located in.
//  Address   – optional street address.
//  IsActive  – whether the hotel accepts new reservations.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Hotel struct {
	ID        uint64    // hotels.id
	Name      string    // hotels.name
	City      string    // hotels.city
	Address   *string   // hotels.address (nullable)
	IsActive  bool      // hotels.is_active
	CreatedAt time.Time // hotels.created_at
	UpdatedAt time.Time // hotels.updated_at
}
