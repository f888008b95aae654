package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// RateRepo reads and writes nightly prices. A date-specific row in
// room_rates wins; when none exists the room type's base rate is used.
// Pricing is read-only from the reservation flow's point of view.
type RateRepo struct {
	db *sql.DB
}

// NewRateRepo constructs a RateRepo bound to the given database.
func NewRateRepo(db *sql.DB) *RateRepo { return &RateRepo{db: db} }

// Upsert stores a date-specific price, replacing any previous value
// for the same (hotel, room type, date).
func (r *RateRepo) Upsert(ctx context.Context, nr *model.NightlyRate) error {
	const q = `INSERT INTO room_rates (hotel_id, room_type_id, stay_date, price_cents)
	           VALUES (?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE price_cents = VALUES(price_cents), updated_at = CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q,
		nr.HotelID, nr.RoomTypeID, nr.StayDate.UTC().Format("2006-01-02"), nr.PriceCents)
	return err
}

// ListByRange returns the date-specific rates of a room type between
// from (inclusive) and to (exclusive), ordered by date.
func (r *RateRepo) ListByRange(ctx context.Context, hotelID, roomTypeID uint64, from, to time.Time) ([]*model.NightlyRate, error) {
	const q = `SELECT id, hotel_id, room_type_id, stay_date, price_cents, created_at, updated_at
	           FROM room_rates
	           WHERE hotel_id = ? AND room_type_id = ? AND stay_date >= ? AND stay_date < ?
	           ORDER BY stay_date`
	rows, err := r.db.QueryContext(ctx, q, hotelID, roomTypeID,
		from.UTC().Format("2006-01-02"), to.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.NightlyRate
	for rows.Next() {
		nr := new(model.NightlyRate)
		if err := rows.Scan(&nr.ID, &nr.HotelID, &nr.RoomTypeID, &nr.StayDate,
			&nr.PriceCents, &nr.CreatedAt, &nr.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, nr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// NightlyPriceTx resolves the price for one night within the given
// transaction. The boolean result is false when neither a
// date-specific rate nor a positive base rate exists for the night.
func (r *RateRepo) NightlyPriceTx(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, night time.Time) (int64, bool, error) {
	const q = `SELECT price_cents FROM room_rates
	           WHERE hotel_id = ? AND room_type_id = ? AND stay_date = ?`
	var price int64
	err := tx.QueryRowContext(ctx, q, hotelID, roomTypeID, night.UTC().Format("2006-01-02")).Scan(&price)
	if err == nil {
		return price, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, err
	}
	// Fall back to the room type's base rate.
	const qBase = `SELECT base_rate_cents FROM room_types WHERE id = ? AND hotel_id = ?`
	var base int64
	err = tx.QueryRowContext(ctx, qBase, roomTypeID, hotelID).Scan(&base)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if base <= 0 {
		return 0, false, nil
	}
	return base, true, nil
}
