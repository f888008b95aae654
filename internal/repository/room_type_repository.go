package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomTypeRepo encapsulates database operations for room types.
// Room types carry the configured capacity (total_rooms) that seeds
// lazily created inventory rows, plus the base nightly rate used when
// no date-specific price exists.
type RoomTypeRepo struct {
	db *sql.DB
}

// NewRoomTypeRepo constructs a RoomTypeRepo given a DB handle.
func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo {
	return &RoomTypeRepo{db: db}
}

const roomTypeColumns = `id, hotel_id, name, description, total_rooms, base_rate_cents, currency, created_at, updated_at`

func scanRoomType(row *sql.Row) (*model.RoomType, error) {
	var rt model.RoomType
	err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &rt.TotalRooms,
		&rt.BaseRateCents, &rt.Currency, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// Create inserts a new room type and populates ID and timestamps.
func (r *RoomTypeRepo) Create(ctx context.Context, rt *model.RoomType) error {
	const qInsert = `INSERT INTO room_types (hotel_id, name, description, total_rooms, base_rate_cents, currency)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		rt.HotelID, rt.Name, rt.Description, rt.TotalRooms, rt.BaseRateCents, rt.Currency)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)

	const qSelect = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	got, err := scanRoomType(r.db.QueryRowContext(ctx, qSelect, rt.ID))
	if err != nil {
		return err
	}
	*rt = *got
	return nil
}

// GetByID retrieves a room type regardless of hotel. Returns
// ErrRoomTypeNotFound when absent.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	return scanRoomType(r.db.QueryRowContext(ctx, q, id))
}

// GetTx retrieves a room type within the given transaction. Used by
// the inventory engine and orchestrator for ownership checks.
func (r *RoomTypeRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ?`
	return scanRoomType(tx.QueryRowContext(ctx, q, id))
}

// ListByHotel returns all room types of a hotel ordered by id.
func (r *RoomTypeRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]*model.RoomType, error) {
	const q = `SELECT ` + roomTypeColumns + ` FROM room_types WHERE hotel_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoomType
	for rows.Next() {
		rt := new(model.RoomType)
		if err := rows.Scan(&rt.ID, &rt.HotelID, &rt.Name, &rt.Description, &rt.TotalRooms,
			&rt.BaseRateCents, &rt.Currency, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByIDAndHotel updates mutable fields of a room type owned by
// the given hotel. Returns ErrRoomTypeNotFound when no row matched.
// Changing total_rooms only affects inventory rows created afterwards;
// existing rows keep the capacity they were created with.
func (r *RoomTypeRepo) UpdateByIDAndHotel(ctx context.Context, rt *model.RoomType) error {
	const q = `UPDATE room_types
	           SET name = ?, description = ?, total_rooms = ?, base_rate_cents = ?, currency = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND hotel_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		rt.Name, rt.Description, rt.TotalRooms, rt.BaseRateCents, rt.Currency, rt.ID, rt.HotelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomTypeNotFound
	}
	return nil
}
