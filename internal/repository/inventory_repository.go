package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// InventoryRepo is the accessor for per-day capacity rows in
// room_inventory. Reads that precede a mutation go through
// GetOrCreateForUpdateTx, which takes an exclusive row lock held until
// the enclosing transaction finishes. That lock is what serializes two
// concurrent reservations competing for the last available room on a
// date: the second transaction blocks on the SELECT ... FOR UPDATE and
// then observes the committed counters of the first.
type InventoryRepo struct {
	db *sql.DB
}

// NewInventoryRepo constructs an InventoryRepo with the given DB handle.
func NewInventoryRepo(db *sql.DB) *InventoryRepo {
	return &InventoryRepo{db: db}
}

const inventoryColumns = `id, hotel_id, room_type_id, stay_date, total_rooms, reserved, blocked, available, created_at, updated_at`

func scanInventoryDay(row *sql.Row) (*model.InventoryDay, error) {
	var d model.InventoryDay
	err := row.Scan(&d.ID, &d.HotelID, &d.RoomTypeID, &d.StayDate, &d.TotalRooms,
		&d.Reserved, &d.Blocked, &d.Available, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetOrCreateForUpdateTx returns the inventory row for one
// (hotel, room type, stay date), locked for the duration of tx. When
// the row does not exist yet it is created with total_rooms copied
// from the room type's configured capacity and zeroed counters, then
// re-selected under the lock. A concurrent insert of the same row
// loses on the unique key and falls through to locking the winner's row.
func (r *InventoryRepo) GetOrCreateForUpdateTx(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, day time.Time) (*model.InventoryDay, error) {
	date := day.UTC().Format("2006-01-02")
	const qLock = `SELECT ` + inventoryColumns + `
	               FROM room_inventory
	               WHERE hotel_id = ? AND room_type_id = ? AND stay_date = ?
	               FOR UPDATE`
	d, err := scanInventoryDay(tx.QueryRowContext(ctx, qLock, hotelID, roomTypeID, date))
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// Lazy creation: seed the row from the room type's current capacity.
	const qInsert = `INSERT INTO room_inventory (hotel_id, room_type_id, stay_date, total_rooms, reserved, blocked, available)
	                 SELECT ?, id, ?, total_rooms, 0, 0, total_rooms
	                 FROM room_types WHERE id = ? AND hotel_id = ?`
	res, err := tx.ExecContext(ctx, qInsert, hotelID, date, roomTypeID, hotelID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			// Another transaction created the row first; lock its version.
			return scanInventoryDay(tx.QueryRowContext(ctx, qLock, hotelID, roomTypeID, date))
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrRoomTypeNotFound
	}
	return scanInventoryDay(tx.QueryRowContext(ctx, qLock, hotelID, roomTypeID, date))
}

// UpdateCountersTx writes the reserved/blocked/available counters of a
// row previously locked in the same transaction.
func (r *InventoryRepo) UpdateCountersTx(ctx context.Context, tx *sql.Tx, d *model.InventoryDay) error {
	const q = `UPDATE room_inventory
	           SET reserved = ?, blocked = ?, available = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, d.Reserved, d.Blocked, d.Available, d.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByRange returns existing inventory rows for a room type between
// from (inclusive) and to (exclusive), ordered by date. Days that were
// never touched have no row and are simply absent from the result.
func (r *InventoryRepo) ListByRange(ctx context.Context, hotelID, roomTypeID uint64, from, to time.Time) ([]*model.InventoryDay, error) {
	const q = `SELECT ` + inventoryColumns + `
	           FROM room_inventory
	           WHERE hotel_id = ? AND room_type_id = ? AND stay_date >= ? AND stay_date < ?
	           ORDER BY stay_date`
	rows, err := r.db.QueryContext(ctx, q, hotelID, roomTypeID,
		from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.InventoryDay
	for rows.Next() {
		d := new(model.InventoryDay)
		if err := rows.Scan(&d.ID, &d.HotelID, &d.RoomTypeID, &d.StayDate, &d.TotalRooms,
			&d.Reserved, &d.Blocked, &d.Available, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
