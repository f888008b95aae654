package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// InventoryEngine reconciles day-level capacity between an old and a
// new occupancy in one pass. The single entry point covers pure
// creation (old empty), pure cancellation (new empty), date or type
// changes (both sides set) and no-ops (identical sides), so callers
// never pair separate reserve and release calls and cannot get their
// order wrong.
type InventoryEngine struct {
	Inventory InventoryStore
	RoomTypes RoomTypeStore
}

// NewInventoryEngine constructs the engine over the given stores.
func NewInventoryEngine(inventory InventoryStore, roomTypes RoomTypeStore) *InventoryEngine {
	return &InventoryEngine{Inventory: inventory, RoomTypes: roomTypes}
}

// rowKey orders locked inventory rows. Rows sort by room type first,
// then by date, so every transaction acquires its locks in the same
// global order regardless of which side of the change a row sits on.
type rowKey struct {
	roomTypeID uint64
	date       string
}

// ApplyRangeChange moves a reservation's claim from oldOcc to newOcc
// inside the caller's transaction.
//
// Every affected row is locked up front in (room type, date) order;
// the availability precheck for net-addition days then runs over the
// locked snapshot before any counter is written. A precheck failure
// therefore aborts with no mutation, and two transactions with
// overlapping ranges cannot deadlock on each other's lock order.
// Net removals are applied before net additions.
func (e *InventoryEngine) ApplyRangeChange(ctx context.Context, tx *sql.Tx, hotelID uint64, oldOcc, newOcc Occupancy) error {
	oldDesc, err := e.normalize(ctx, tx, hotelID, oldOcc)
	if err != nil {
		return err
	}
	newDesc, err := e.normalize(ctx, tx, hotelID, newOcc)
	if err != nil {
		return err
	}
	if oldDesc == nil && newDesc == nil {
		return nil
	}
	if sameClaim(oldDesc, newDesc) {
		return nil
	}

	// Net additions: dates the new claim needs that the old claim does
	// not already hold under the same room type. Net removals mirror it.
	var additions, removals []rowKey
	if newDesc != nil {
		for key := range newDesc.days {
			if !oldDesc.holds(newDesc.roomTypeID, key) {
				additions = append(additions, rowKey{newDesc.roomTypeID, key})
			}
		}
	}
	if oldDesc != nil {
		for key := range oldDesc.days {
			if !newDesc.holds(oldDesc.roomTypeID, key) {
				removals = append(removals, rowKey{oldDesc.roomTypeID, key})
			}
		}
	}
	sortKeys(additions)
	sortKeys(removals)

	// Lock phase: acquire every affected row exactly once, in global
	// (room type, date) order. Removal and addition keys never collide:
	// a retained (type, date) pair is excluded from both sets.
	locked := make(map[rowKey]*model.InventoryDay, len(additions)+len(removals))
	for _, key := range mergeKeys(removals, additions) {
		day, err := e.Inventory.GetOrCreateForUpdateTx(ctx, tx, hotelID, key.roomTypeID, mustParseDate(key.date))
		if err != nil {
			return err
		}
		locked[key] = day
	}

	// Precheck phase: every net-addition day must have a room left.
	// Nothing has been written yet, so failing here aborts cleanly.
	for _, key := range additions {
		if locked[key].Available <= 0 {
			return badRequestf("no availability for room type %d on %s", key.roomTypeID, key.date)
		}
	}

	// Mutation phase: removals first so a pure date shift never
	// transiently double-counts a day shared by both sides.
	for _, key := range removals {
		day := locked[key]
		if day.Reserved > 0 {
			day.Reserved--
		}
		day.Recompute()
		if err := e.Inventory.UpdateCountersTx(ctx, tx, day); err != nil {
			return err
		}
	}
	for _, key := range additions {
		day := locked[key]
		day.Reserved++
		day.Recompute()
		if err := e.Inventory.UpdateCountersTx(ctx, tx, day); err != nil {
			return err
		}
	}
	return nil
}

// AdjustBlocked shifts the blocked counter of every day in
// [from, to) by delta, flooring at zero. Blocking takes rooms out of
// sale for reasons unrelated to guest reservations (renovation,
// overbooking buffers); a block that would push availability negative
// is rejected before any day is written.
func (e *InventoryEngine) AdjustBlocked(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, from, to time.Time, delta int) error {
	from, to = DateOnly(from), DateOnly(to)
	if !to.After(from) {
		return badRequestf("invalid date range %s..%s", dateKey(from), dateKey(to))
	}
	rt, err := e.RoomTypes.GetTx(ctx, tx, roomTypeID)
	if errors.Is(err, repository.ErrRoomTypeNotFound) {
		return notFoundf("room type %d", roomTypeID)
	}
	if err != nil {
		return err
	}
	if rt.HotelID != hotelID {
		return badRequestf("room type %d does not belong to hotel %d", roomTypeID, hotelID)
	}

	var days []*model.InventoryDay
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		d, err := e.Inventory.GetOrCreateForUpdateTx(ctx, tx, hotelID, roomTypeID, day)
		if err != nil {
			return err
		}
		blocked := d.Blocked + delta
		if blocked < 0 {
			blocked = 0
		}
		if d.TotalRooms-d.Reserved-blocked < 0 {
			return badRequestf("blocking %d rooms on %s would exceed capacity", delta, dateKey(day))
		}
		d.Blocked = blocked
		d.Recompute()
		days = append(days, d)
	}
	for _, d := range days {
		if err := e.Inventory.UpdateCountersTx(ctx, tx, d); err != nil {
			return err
		}
	}
	return nil
}

// normalize validates one side of a range change and expands it into a
// descriptor. An empty side yields nil.
func (e *InventoryEngine) normalize(ctx context.Context, tx *sql.Tx, hotelID uint64, occ Occupancy) (*descriptor, error) {
	if occ.isEmpty() {
		return nil, nil
	}
	if !occ.isComplete() {
		return nil, badRequestf("occupancy must specify room type, check-in and check-out together")
	}
	in, out := DateOnly(*occ.CheckIn), DateOnly(*occ.CheckOut)
	if !out.After(in) {
		return nil, badRequestf("check-out %s must be after check-in %s", dateKey(out), dateKey(in))
	}
	rt, err := e.RoomTypes.GetTx(ctx, tx, *occ.RoomTypeID)
	if errors.Is(err, repository.ErrRoomTypeNotFound) {
		return nil, notFoundf("room type %d", *occ.RoomTypeID)
	}
	if err != nil {
		return nil, err
	}
	if rt.HotelID != hotelID {
		return nil, badRequestf("room type %d does not belong to hotel %d", rt.ID, hotelID)
	}
	return newDescriptor(rt.ID, in, out), nil
}

func sortKeys(keys []rowKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].roomTypeID != keys[j].roomTypeID {
			return keys[i].roomTypeID < keys[j].roomTypeID
		}
		return keys[i].date < keys[j].date
	})
}

// mergeKeys interleaves two individually sorted, disjoint key slices
// into one sorted slice.
func mergeKeys(a, b []rowKey) []rowKey {
	out := make([]rowKey, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sortKeys(out)
	return out
}

func mustParseDate(key string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", key, time.UTC)
	if err != nil {
		panic("malformed date key: " + key)
	}
	return t
}
