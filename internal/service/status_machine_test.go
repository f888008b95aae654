package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestCanTransition(t *testing.T) {
	m := NewStatusMachine(newFakeReservations(), &fakeHistory{})

	legal := [][2]model.Status{
		{model.StatusPending, model.StatusConfirmed},
		{model.StatusPending, model.StatusCanceled},
		{model.StatusConfirmed, model.StatusCheckedIn},
		{model.StatusConfirmed, model.StatusCanceled},
		{model.StatusCheckedIn, model.StatusCheckedOut},
	}
	for _, p := range legal {
		if !m.CanTransition(p[0], p[1]) {
			t.Errorf("%s -> %s should be legal", p[0], p[1])
		}
	}
	illegal := [][2]model.Status{
		{model.StatusPending, model.StatusCheckedIn},
		{model.StatusCheckedIn, model.StatusCanceled},
		{model.StatusCheckedOut, model.StatusCheckedIn},
		{model.StatusCanceled, model.StatusPending},
		{model.StatusCheckedOut, model.StatusCheckedOut},
	}
	for _, p := range illegal {
		if m.CanTransition(p[0], p[1]) {
			t.Errorf("%s -> %s should be illegal", p[0], p[1])
		}
	}
}

func TestChangeStatusAppendsOneAuditRow(t *testing.T) {
	reservations := newFakeReservations()
	history := &fakeHistory{}
	m := NewStatusMachine(reservations, history)
	ctx := context.Background()

	res := &model.Reservation{HotelID: testHotel, RoomTypeID: 10, UserID: 7, Status: model.StatusPending}
	if err := reservations.CreateTx(ctx, nil, res); err != nil {
		t.Fatal(err)
	}

	actor := uint64(42)
	reason := "guest confirmed by phone"
	if err := m.ChangeStatus(ctx, nil, res, model.StatusConfirmed, &reason, &actor); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if res.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want CONFIRMED", res.Status)
	}
	stored, _ := reservations.GetForUpdateTx(ctx, nil, res.ID)
	if stored.Status != model.StatusConfirmed {
		t.Errorf("persisted status = %s, want CONFIRMED", stored.Status)
	}
	if len(history.entries) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(history.entries))
	}
	e := history.entries[0]
	if e.FromStatus != model.StatusPending || e.ToStatus != model.StatusConfirmed {
		t.Errorf("audit %s -> %s, want PENDING -> CONFIRMED", e.FromStatus, e.ToStatus)
	}
	if e.ChangedByUserID == nil || *e.ChangedByUserID != actor {
		t.Error("audit actor not recorded")
	}
	if e.Reason == nil || *e.Reason != reason {
		t.Error("audit reason not recorded")
	}
}

func TestChangeStatusIllegalTransition(t *testing.T) {
	reservations := newFakeReservations()
	history := &fakeHistory{}
	m := NewStatusMachine(reservations, history)
	ctx := context.Background()

	res := &model.Reservation{HotelID: testHotel, RoomTypeID: 10, UserID: 7, Status: model.StatusPending}
	if err := reservations.CreateTx(ctx, nil, res); err != nil {
		t.Fatal(err)
	}

	err := m.ChangeStatus(ctx, nil, res, model.StatusCheckedIn, nil, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest, got %v", err)
	}
	stored, _ := reservations.GetForUpdateTx(ctx, nil, res.ID)
	if stored.Status != model.StatusPending {
		t.Errorf("status changed on illegal transition: %s", stored.Status)
	}
	if len(history.entries) != 0 {
		t.Errorf("audit rows = %d after rejected transition, want 0", len(history.entries))
	}
}

func TestChangeStatusUnknownTarget(t *testing.T) {
	m := NewStatusMachine(newFakeReservations(), &fakeHistory{})
	res := &model.Reservation{Status: model.StatusPending}

	err := m.ChangeStatus(context.Background(), nil, res, model.Status("SHIPPED"), nil, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest for unknown status, got %v", err)
	}
}
