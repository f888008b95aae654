package model

import "time"

// Status is the lifecycle state of a reservation.  Transitions between
// states are validated by the status machine in the service layer;
// nothing else may change a reservation's status.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCanceled   Status = "CANCELED"
	StatusNoShow     Status = "NO_SHOW"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCanceled, StatusNoShow:
		return true
	}
	return false
}

// UpgradeStatus tracks whether a reservation may be (or has been) moved
// to a better room type.
type UpgradeStatus string

const (
	UpgradeNotEligible UpgradeStatus = "NOT_ELIGIBLE"
	UpgradeEligible    UpgradeStatus = "ELIGIBLE"
	UpgradeApplied     UpgradeStatus = "APPLIED"
)

// Reservation is the aggregate root of a guest's stay.  It claims one
// room of its room type for every night in [CheckIn, CheckOut) and is
// never hard-deleted; cancellation is a terminal status.
//
// Invariants: CheckOut is strictly after CheckIn, Nights equals the
// whole-day difference between them, and RoomTypeID always references
// a room type owned by HotelID.
type Reservation struct {
	ID              uint64        // reservations.id
	HotelID         uint64        // reservations.hotel_id
	RoomTypeID      uint64        // reservations.room_type_id
	RoomID          *uint64       // reservations.room_id (nullable, set on assignment)
	UserID          uint64        // reservations.user_id
	Status          Status        // reservations.status
	UpgradeStatus   UpgradeStatus // reservations.upgrade_status
	CheckIn         time.Time     // reservations.check_in (UTC midnight)
	CheckOut        time.Time     // reservations.check_out (UTC midnight, exclusive)
	Nights          int           // reservations.nights (derived)
	NumGuests       int           // reservations.num_guests
	Currency        string        // reservations.currency
	PriceTotalCents int64         // reservations.price_total_cents
	Notes           *string       // reservations.notes (nullable)
	CreatedAt       time.Time     // reservations.created_at
	UpdatedAt       time.Time     // reservations.updated_at
	UpgradedAt      *time.Time    // reservations.upgraded_at (nullable)
	CanceledAt      *time.Time    // reservations.canceled_at (nullable)
}
