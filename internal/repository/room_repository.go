package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RoomRepo provides methods to work with concrete rooms. Rooms only
// matter to the reservation flow once staff assign one; inventory is
// tracked per room type, not per room.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

const roomColumns = `id, hotel_id, room_type_id, room_number, is_active, created_at, updated_at`

func scanRoom(row *sql.Row) (*model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.HotelID, &rm.RoomTypeID, &rm.RoomNumber,
		&rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// Create inserts a single room record. On success the room's ID is populated.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (hotel_id, room_type_id, room_number) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.HotelID, rm.RoomTypeID, rm.RoomNumber)
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
	rm.ID = uint64(id)
	return nil
}

// CreateBulk inserts multiple rooms in a single statement.
func (r *RoomRepo) CreateBulk(ctx context.Context, rooms []model.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	query := `INSERT INTO rooms (hotel_id, room_type_id, room_number) VALUES `
	args := make([]interface{}, 0, len(rooms)*3)
	for i, rm := range rooms {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, rm.HotelID, rm.RoomTypeID, rm.RoomNumber)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a room by its id (no ownership check).
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(r.db.QueryRowContext(ctx, q, id))
}

// GetTx retrieves a room within the given transaction, used by the
// orchestrator when validating a concrete-room assignment.
func (r *RoomRepo) GetTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	return scanRoom(tx.QueryRowContext(ctx, q, id))
}

// ListByHotel returns all rooms of a hotel, optionally restricted to
// one room type (roomTypeID = 0 means all types).
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID, roomTypeID uint64) ([]*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ?`
	args := []interface{}{hotelID}
	if roomTypeID != 0 {
		q += ` AND room_type_id = ?`
		args = append(args, roomTypeID)
	}
	q += ` ORDER BY room_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm := new(model.Room)
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.RoomTypeID, &rm.RoomNumber,
			&rm.IsActive, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByIDAndHotel removes a room while ensuring it belongs to the hotel.
func (r *RoomRepo) DeleteByIDAndHotel(ctx context.Context, id, hotelID uint64) error {
	const q = `DELETE FROM rooms WHERE id = ? AND hotel_id = ?`
	res, err := r.db.ExecContext(ctx, q, id, hotelID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}
