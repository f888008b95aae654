package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// The service layer talks to persistence through these narrow
// interfaces. The SQL repositories in internal/repository satisfy
// them; tests substitute in-memory fakes. Methods carrying a *sql.Tx
// participate in the transaction owned by the orchestrator.

// TxRunner executes a function within a single transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// HotelStore answers existence checks for hotels.
type HotelStore interface {
	ExistsTx(ctx context.Context, tx *sql.Tx, hotelID uint64) (bool, error)
}

// RoomTypeStore loads room type master data (ownership, capacity,
// base rate).
type RoomTypeStore interface {
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.RoomType, error)
}

// RoomStore loads concrete rooms for assignment validation.
type RoomStore interface {
	GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error)
}

// RateStore resolves the price of a single night. The boolean result
// is false when no price exists for that night.
type RateStore interface {
	NightlyPriceTx(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, night time.Time) (int64, bool, error)
}

// InventoryStore is the locked accessor for per-day capacity rows.
// GetOrCreateForUpdateTx must hold an exclusive lock on the returned
// row until the transaction ends, creating the row from room type
// master data when it does not exist yet.
type InventoryStore interface {
	GetOrCreateForUpdateTx(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, day time.Time) (*model.InventoryDay, error)
	UpdateCountersTx(ctx context.Context, tx *sql.Tx, d *model.InventoryDay) error
}

// ReservationStore persists reservation aggregates.
type ReservationStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
}

// HistoryStore appends audit rows; it is insert-only.
type HistoryStore interface {
	AppendTx(ctx context.Context, tx *sql.Tx, e *model.StatusHistoryEntry) error
}
