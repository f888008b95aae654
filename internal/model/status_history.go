package model

import "time"

// StatusHistoryEntry is the append-only audit record written once per
// accepted lifecycle transition.  Entries are immutable; they are
// never updated or deleted.
type StatusHistoryEntry struct {
	ID              uint64    // reservation_status_history.id
	ReservationID   uint64    // reservation_status_history.reservation_id
	FromStatus      Status    // reservation_status_history.from_status
	ToStatus        Status    // reservation_status_history.to_status
	ChangedAt       time.Time // reservation_status_history.changed_at
	ChangedByUserID *uint64   // reservation_status_history.changed_by_user_id (nullable)
	Reason          *string   // reservation_status_history.reason (nullable)
}
