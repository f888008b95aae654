package model

import "time"

// InventoryDay holds the capacity counters for one
// (hotel, room type, stay date) combination.  Rows are created lazily
// the first time a date is touched, with TotalRooms copied from the
// room type, and are never deleted afterwards.
//
// The counters must always satisfy
//
//	Available == TotalRooms - Reserved - Blocked
//
// with every counter non-negative.  Mutation happens exclusively
// inside a transaction that holds a row lock on this record.
type InventoryDay struct {
	ID         uint64    // room_inventory.id
	HotelID    uint64    // room_inventory.hotel_id
	RoomTypeID uint64    // room_inventory.room_type_id
	StayDate   time.Time // room_inventory.stay_date (UTC midnight)
	TotalRooms int       // room_inventory.total_rooms
	Reserved   int       // room_inventory.reserved
	Blocked    int       // room_inventory.blocked
	Available  int       // room_inventory.available
	CreatedAt  time.Time // room_inventory.created_at
	UpdatedAt  time.Time // room_inventory.updated_at
}

// Recompute refreshes the derived Available counter from the other three.
func (d *InventoryDay) Recompute() {
	d.Available = d.TotalRooms - d.Reserved - d.Blocked
}
