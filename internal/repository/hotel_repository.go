package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// HotelRepo provides methods to create and retrieve hotels.
type HotelRepo struct {
	db *sql.DB
}

// NewHotelRepo constructs a HotelRepo with the given DB handle.
func NewHotelRepo(db *sql.DB) *HotelRepo {
	return &HotelRepo{db: db}
}

// Create inserts a new hotel. On success the ID and timestamp fields
// of the passed struct are populated from the stored row.
func (r *HotelRepo) Create(ctx context.Context, h *model.Hotel) error {
	const qInsert = `INSERT INTO hotels (name, city, address) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, h.Name, h.City, h.Address)
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
	h.ID = uint64(id)

	const qSelect = `SELECT id, name, city, address, is_active, created_at, updated_at
	                 FROM hotels WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, h.ID).
		Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
}

// GetByID retrieves a hotel by its ID. It returns ErrHotelNotFound
// when no row exists.
func (r *HotelRepo) GetByID(ctx context.Context, id uint64) (*model.Hotel, error) {
	const q = `SELECT id, name, city, address, is_active, created_at, updated_at
	           FROM hotels WHERE id = ?`
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.IsActive, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHotelNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all hotels ordered by id.
func (r *HotelRepo) List(ctx context.Context) ([]*model.Hotel, error) {
	const q = `SELECT id, name, city, address, is_active, created_at, updated_at
	           FROM hotels ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Hotel
	for rows.Next() {
		h := new(model.Hotel)
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.IsActive, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update writes name/city/address/is_active. Returns ErrHotelNotFound
// when no row was touched.
func (r *HotelRepo) Update(ctx context.Context, h *model.Hotel) error {
	const q = `UPDATE hotels
	           SET name = ?, city = ?, address = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, h.Name, h.City, h.Address, h.IsActive, h.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrHotelNotFound
	}
	return nil
}

// ExistsTx reports whether a hotel row exists, within the given
// transaction. Used as the existence guard for orchestrated operations.
func (r *HotelRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	const q = `SELECT 1 FROM hotels WHERE id = ?`
	var one int
	err := tx.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
