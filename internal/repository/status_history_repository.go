package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// StatusHistoryRepo appends and reads the reservation audit trail.
// Rows are insert-only; there is deliberately no update or delete.
type StatusHistoryRepo struct {
	db *sql.DB
}

// NewStatusHistoryRepo returns a repo bound to the given database.
func NewStatusHistoryRepo(db *sql.DB) *StatusHistoryRepo {
	return &StatusHistoryRepo{db: db}
}

// AppendTx records one accepted transition within the transaction.
// The entry's ID is populated on success.
func (r *StatusHistoryRepo) AppendTx(ctx context.Context, tx *sql.Tx, e *model.StatusHistoryEntry) error {
	const q = `INSERT INTO reservation_status_history
	           (reservation_id, from_status, to_status, changed_at, changed_by_user_id, reason)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		e.ReservationID, e.FromStatus, e.ToStatus,
		e.ChangedAt.UTC().Format("2006-01-02 15:04:05"), e.ChangedByUserID, e.Reason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByReservation returns the audit trail of a reservation in
// chronological order.
func (r *StatusHistoryRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]*model.StatusHistoryEntry, error) {
	const q = `SELECT id, reservation_id, from_status, to_status, changed_at, changed_by_user_id, reason
	           FROM reservation_status_history
	           WHERE reservation_id = ?
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.StatusHistoryEntry, 0)
	for rows.Next() {
		e := new(model.StatusHistoryEntry)
		if err := rows.Scan(&e.ID, &e.ReservationID, &e.FromStatus, &e.ToStatus,
			&e.ChangedAt, &e.ChangedByUserID, &e.Reason); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
