// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services and handlers to distinguish between different failure
// scenarios, e.g. a lookup that found nothing versus an operation the
// caller is not allowed to perform on someone else's resource.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert or update cannot be
// performed because of conflicting state, such as a duplicate key
// on a uniquely constrained column. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// Per-entity not-found sentinels. Repositories translate sql.ErrNoRows
// into these so callers never depend on database/sql directly.
var (
	ErrHotelNotFound       = errors.New("hotel not found")
	ErrRoomTypeNotFound    = errors.New("room type not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrReservationNotFound = errors.New("reservation not found")
)
