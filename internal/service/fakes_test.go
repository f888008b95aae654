package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// In-memory stand-ins for the SQL repositories. The fake runner calls
// the function with a nil transaction; the fakes ignore the tx
// argument entirely, so service logic runs unchanged.

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

type fakeHotels struct {
	ids map[uint64]bool
}

func (f *fakeHotels) ExistsTx(_ context.Context, _ *sql.Tx, hotelID uint64) (bool, error) {
	return f.ids[hotelID], nil
}

type fakeRoomTypes struct {
	types map[uint64]*model.RoomType
}

func (f *fakeRoomTypes) GetTx(_ context.Context, _ *sql.Tx, id uint64) (*model.RoomType, error) {
	rt, ok := f.types[id]
	if !ok {
		return nil, repository.ErrRoomTypeNotFound
	}
	cp := *rt
	return &cp, nil
}

type fakeRooms struct {
	rooms map[uint64]*model.Room
}

func (f *fakeRooms) GetTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *rm
	return &cp, nil
}

type rateKey struct {
	roomTypeID uint64
	date       string
}

// fakeRates resolves per-night overrides first, then the room type's
// base rate, matching the SQL repository's fallback query.
type fakeRates struct {
	overrides map[rateKey]int64
	roomTypes *fakeRoomTypes
}

func (f *fakeRates) NightlyPriceTx(_ context.Context, _ *sql.Tx, _, roomTypeID uint64, night time.Time) (int64, bool, error) {
	if p, ok := f.overrides[rateKey{roomTypeID, dateKey(night)}]; ok {
		return p, true, nil
	}
	if rt, ok := f.roomTypes.types[roomTypeID]; ok && rt.BaseRateCents > 0 {
		return rt.BaseRateCents, true, nil
	}
	return 0, false, nil
}

type invKey struct {
	roomTypeID uint64
	date       string
}

// fakeInventory creates day rows lazily from room type capacity and
// records every lock and counter write so tests can assert which rows
// an operation touched.
type fakeInventory struct {
	roomTypes *fakeRoomTypes
	rows      map[invKey]*model.InventoryDay
	nextID    uint64
	locks     []invKey
	writes    []invKey
}

func newFakeInventory(roomTypes *fakeRoomTypes) *fakeInventory {
	return &fakeInventory{roomTypes: roomTypes, rows: make(map[invKey]*model.InventoryDay)}
}

func (f *fakeInventory) GetOrCreateForUpdateTx(_ context.Context, _ *sql.Tx, hotelID, roomTypeID uint64, day time.Time) (*model.InventoryDay, error) {
	key := invKey{roomTypeID, dateKey(day)}
	f.locks = append(f.locks, key)
	if d, ok := f.rows[key]; ok {
		return d, nil
	}
	rt, ok := f.roomTypes.types[roomTypeID]
	if !ok || rt.HotelID != hotelID {
		return nil, repository.ErrRoomTypeNotFound
	}
	f.nextID++
	d := &model.InventoryDay{
		ID:         f.nextID,
		HotelID:    hotelID,
		RoomTypeID: roomTypeID,
		StayDate:   DateOnly(day),
		TotalRooms: rt.TotalRooms,
		Available:  rt.TotalRooms,
	}
	f.rows[key] = d
	return d, nil
}

func (f *fakeInventory) UpdateCountersTx(_ context.Context, _ *sql.Tx, d *model.InventoryDay) error {
	key := invKey{d.RoomTypeID, dateKey(d.StayDate)}
	f.writes = append(f.writes, key)
	f.rows[key] = d
	return nil
}

func (f *fakeInventory) day(roomTypeID uint64, date string) *model.InventoryDay {
	return f.rows[invKey{roomTypeID, date}]
}

func (f *fakeInventory) reset() {
	f.locks = nil
	f.writes = nil
}

type fakeReservations struct {
	byID   map[uint64]*model.Reservation
	nextID uint64
}

func newFakeReservations() *fakeReservations {
	return &fakeReservations{byID: make(map[uint64]*model.Reservation)}
}

func (f *fakeReservations) CreateTx(_ context.Context, _ *sql.Tx, res *model.Reservation) error {
	f.nextID++
	res.ID = f.nextID
	now := time.Now().UTC()
	res.CreatedAt = now
	res.UpdatedAt = now
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

func (f *fakeReservations) GetForUpdateTx(_ context.Context, _ *sql.Tx, id uint64) (*model.Reservation, error) {
	res, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeReservations) UpdateTx(_ context.Context, _ *sql.Tx, res *model.Reservation) error {
	if _, ok := f.byID[res.ID]; !ok {
		return repository.ErrReservationNotFound
	}
	cp := *res
	f.byID[res.ID] = &cp
	return nil
}

type fakeHistory struct {
	entries []model.StatusHistoryEntry
}

func (f *fakeHistory) AppendTx(_ context.Context, _ *sql.Tx, e *model.StatusHistoryEntry) error {
	f.entries = append(f.entries, *e)
	return nil
}

// date builds a UTC midnight time for test input.
func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
