package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

// transitions is the full lifecycle graph. A state missing from the
// outer map is terminal. This table is the single source of truth for
// which status changes are legal.
var transitions = map[model.Status]map[model.Status]bool{
	model.StatusPending: {
		model.StatusConfirmed: true,
		model.StatusCanceled:  true,
	},
	model.StatusConfirmed: {
		model.StatusCheckedIn: true,
		model.StatusCanceled:  true,
	},
	model.StatusCheckedIn: {
		model.StatusCheckedOut: true,
	},
}

// StatusMachine validates and records lifecycle transitions. It is the
// only code path that changes a reservation's status, and it always
// runs inside the orchestrator's transaction so the status write and
// its audit row commit or roll back together.
type StatusMachine struct {
	Reservations ReservationStore
	History      HistoryStore
}

// NewStatusMachine constructs a StatusMachine over the given stores.
func NewStatusMachine(reservations ReservationStore, history HistoryStore) *StatusMachine {
	return &StatusMachine{Reservations: reservations, History: history}
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func (m *StatusMachine) CanTransition(from, to model.Status) bool {
	return transitions[from][to]
}

// ChangeStatus applies a validated transition: it sets the new status,
// persists the reservation (including any field changes the caller
// staged on it) and appends exactly one audit entry. An illegal pair
// is rejected with an error naming both states and nothing is written.
func (m *StatusMachine) ChangeStatus(ctx context.Context, tx *sql.Tx, res *model.Reservation, to model.Status, reason *string, actorID *uint64) error {
	if !to.Valid() {
		return badRequestf("unknown status %q", string(to))
	}
	if !m.CanTransition(res.Status, to) {
		return badRequestf("illegal status transition %s -> %s", res.Status, to)
	}
	from := res.Status
	now := time.Now().UTC()
	res.Status = to
	res.UpdatedAt = now
	if err := m.Reservations.UpdateTx(ctx, tx, res); err != nil {
		return err
	}
	entry := &model.StatusHistoryEntry{
		ReservationID:   res.ID,
		FromStatus:      from,
		ToStatus:        to,
		ChangedAt:       now,
		ChangedByUserID: actorID,
		Reason:          reason,
	}
	return m.History.AppendTx(ctx, tx, entry)
}
