package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations. All
// writes that participate in an inventory change run inside the
// orchestrator's transaction via the *Tx methods; plain reads used by
// list endpoints go against the pool directly. All timestamp fields
// are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, hotel_id, room_type_id, room_id, user_id, status, upgrade_status,
	check_in, check_out, nights, num_guests, currency, price_total_cents, notes,
	created_at, updated_at, upgraded_at, canceled_at`

type reservationScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row reservationScanner) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.HotelID, &res.RoomTypeID, &res.RoomID, &res.UserID,
		&res.Status, &res.UpgradeStatus, &res.CheckIn, &res.CheckOut, &res.Nights,
		&res.NumGuests, &res.Currency, &res.PriceTotalCents, &res.Notes,
		&res.CreatedAt, &res.UpdatedAt, &res.UpgradedAt, &res.CanceledAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction. It populates the generated ID and stored timestamps on
// the provided struct. The caller must commit or rollback the
// transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (hotel_id, room_type_id, room_id, user_id, status, upgrade_status,
	            check_in, check_out, nights, num_guests, currency, price_total_cents, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.HotelID, res.RoomTypeID, res.RoomID, res.UserID, res.Status, res.UpgradeStatus,
		res.CheckIn.UTC().Format("2006-01-02"), res.CheckOut.UTC().Format("2006-01-02"),
		res.Nights, res.NumGuests, res.Currency, res.PriceTotalCents, res.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	got, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *got
	return nil
}

// GetForUpdateTx loads a reservation with an exclusive row lock so the
// orchestrator can mutate it without racing a concurrent modify or
// cancel of the same reservation.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, id))
}

// UpdateTx writes all mutable reservation fields within the transaction.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET room_type_id = ?, room_id = ?, status = ?, upgrade_status = ?,
	               check_in = ?, check_out = ?, nights = ?, num_guests = ?,
	               currency = ?, price_total_cents = ?, notes = ?,
	               upgraded_at = ?, canceled_at = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	result, err := tx.ExecContext(ctx, q,
		res.RoomTypeID, res.RoomID, res.Status, res.UpgradeStatus,
		res.CheckIn.UTC().Format("2006-01-02"), res.CheckOut.UTC().Format("2006-01-02"),
		res.Nights, res.NumGuests, res.Currency, res.PriceTotalCents, res.Notes,
		res.UpgradedAt, res.CanceledAt, res.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// GetByID retrieves a reservation by id without locking.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUser returns a reservation only when it belongs to the
// given user. Returns ErrReservationNotFound when absent and
// ErrForbidden when owned by someone else.
func (r *ReservationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Reservation, error) {
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	return res, nil
}

// ListFilter narrows ListByHotel. Zero values mean "no filter".
type ListFilter struct {
	Status model.Status // only reservations in this status
	From   time.Time    // check_out strictly after From
	To     time.Time    // check_in strictly before To
}

// ListByHotel returns reservations of a hotel, newest first, with
// optional status and stay-date-overlap filters.
func (r *ReservationRepo) ListByHotel(ctx context.Context, hotelID uint64, f ListFilter) ([]*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE hotel_id = ?`
	args := []interface{}{hotelID}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if !f.From.IsZero() {
		q += ` AND check_out > ?`
		args = append(args, f.From.UTC().Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		q += ` AND check_in < ?`
		args = append(args, f.To.UTC().Format("2006-01-02"))
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns all reservations created by the given user,
// newest first. When none exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
