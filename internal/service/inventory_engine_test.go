package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

const testHotel = uint64(1)

func newEngineFixture() (*InventoryEngine, *fakeInventory, *fakeRoomTypes) {
	roomTypes := &fakeRoomTypes{types: map[uint64]*model.RoomType{
		10: {ID: 10, HotelID: testHotel, Name: "Standard", TotalRooms: 2, BaseRateCents: 10000, Currency: "USD"},
		20: {ID: 20, HotelID: testHotel, Name: "Deluxe", TotalRooms: 1, BaseRateCents: 20000, Currency: "USD"},
		30: {ID: 30, HotelID: 2, Name: "Other", TotalRooms: 5, BaseRateCents: 5000, Currency: "USD"},
	}}
	inv := newFakeInventory(roomTypes)
	return NewInventoryEngine(inv, roomTypes), inv, roomTypes
}

func TestApplyRangeChangeCreation(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(10, date("2026-09-01"), date("2026-09-03")))
	if err != nil {
		t.Fatalf("creation: %v", err)
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		day := inv.day(10, d)
		if day == nil {
			t.Fatalf("no row for %s", d)
		}
		if day.Reserved != 1 || day.Available != 1 {
			t.Errorf("%s: reserved=%d available=%d, want 1/1", d, day.Reserved, day.Available)
		}
	}
	if inv.day(10, "2026-09-03") != nil {
		t.Error("check-out date must not be touched")
	}
}

func TestApplyRangeChangeNoOps(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	if err := engine.ApplyRangeChange(ctx, nil, testHotel, EmptyOccupancy(), EmptyOccupancy()); err != nil {
		t.Fatalf("both empty: %v", err)
	}
	same := StayOccupancy(10, date("2026-09-01"), date("2026-09-03"))
	if err := engine.ApplyRangeChange(ctx, nil, testHotel, same, same); err != nil {
		t.Fatalf("identical sides: %v", err)
	}
	if len(inv.writes) != 0 || len(inv.locks) != 0 {
		t.Errorf("no-ops must not lock or write, got %d locks %d writes", len(inv.locks), len(inv.writes))
	}
}

func TestApplyRangeChangePartialOccupancy(t *testing.T) {
	engine, _, _ := newEngineFixture()
	typeID := uint64(10)

	err := engine.ApplyRangeChange(context.Background(), nil, testHotel,
		EmptyOccupancy(), Occupancy{RoomTypeID: &typeID})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest for partial occupancy, got %v", err)
	}
}

func TestApplyRangeChangeInvertedRange(t *testing.T) {
	engine, _, _ := newEngineFixture()

	err := engine.ApplyRangeChange(context.Background(), nil, testHotel,
		EmptyOccupancy(), StayOccupancy(10, date("2026-09-03"), date("2026-09-01")))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest for inverted range, got %v", err)
	}
}

func TestApplyRangeChangeUnknownRoomType(t *testing.T) {
	engine, _, _ := newEngineFixture()

	err := engine.ApplyRangeChange(context.Background(), nil, testHotel,
		EmptyOccupancy(), StayOccupancy(99, date("2026-09-01"), date("2026-09-02")))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown room type, got %v", err)
	}
}

func TestApplyRangeChangeForeignRoomType(t *testing.T) {
	engine, _, _ := newEngineFixture()

	// Room type 30 belongs to another hotel.
	err := engine.ApplyRangeChange(context.Background(), nil, testHotel,
		EmptyOccupancy(), StayOccupancy(30, date("2026-09-01"), date("2026-09-02")))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest for foreign room type, got %v", err)
	}
}

func TestApplyRangeChangeOversellPrecheck(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	// Deluxe has a single room; the first claim takes it.
	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(20, date("2026-09-01"), date("2026-09-02"))); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	inv.reset()

	// The second claim spans a full day and a free day. The precheck
	// must fail on the full day and leave the free day unwritten.
	err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(20, date("2026-09-01"), date("2026-09-03")))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest on oversell, got %v", err)
	}
	if len(inv.writes) != 0 {
		t.Errorf("failed precheck must not write counters, wrote %v", inv.writes)
	}
	if d := inv.day(20, "2026-09-01"); d.Reserved != 1 {
		t.Errorf("full day reserved=%d, want 1", d.Reserved)
	}
	if d := inv.day(20, "2026-09-02"); d.Reserved != 0 {
		t.Errorf("free day reserved=%d, want 0", d.Reserved)
	}
}

func TestApplyRangeChangeDateShiftTouchesOnlyEdges(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(10, date("2026-09-01"), date("2026-09-03"))); err != nil {
		t.Fatalf("setup: %v", err)
	}
	inv.reset()

	// Shift [09-01, 09-03) to [09-02, 09-04): only the first and the
	// new last night change hands, the shared night stays put.
	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		StayOccupancy(10, date("2026-09-01"), date("2026-09-03")),
		StayOccupancy(10, date("2026-09-02"), date("2026-09-04"))); err != nil {
		t.Fatalf("shift: %v", err)
	}
	if len(inv.writes) != 2 {
		t.Fatalf("want exactly 2 counter writes, got %v", inv.writes)
	}
	if d := inv.day(10, "2026-09-01"); d.Reserved != 0 {
		t.Errorf("released day reserved=%d, want 0", d.Reserved)
	}
	if d := inv.day(10, "2026-09-02"); d.Reserved != 1 {
		t.Errorf("retained day reserved=%d, want 1", d.Reserved)
	}
	if d := inv.day(10, "2026-09-03"); d.Reserved != 1 {
		t.Errorf("new day reserved=%d, want 1", d.Reserved)
	}
}

func TestApplyRangeChangeTypeChange(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(10, date("2026-09-01"), date("2026-09-03"))); err != nil {
		t.Fatalf("setup: %v", err)
	}
	// Same dates, different type: the whole range moves even though
	// the date set is identical.
	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		StayOccupancy(10, date("2026-09-01"), date("2026-09-03")),
		StayOccupancy(20, date("2026-09-01"), date("2026-09-03"))); err != nil {
		t.Fatalf("type change: %v", err)
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		if day := inv.day(10, d); day.Reserved != 0 {
			t.Errorf("old type %s reserved=%d, want 0", d, day.Reserved)
		}
		if day := inv.day(20, d); day.Reserved != 1 {
			t.Errorf("new type %s reserved=%d, want 1", d, day.Reserved)
		}
	}
}

func TestApplyRangeChangeReleaseFloorsAtZero(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	// Releasing a claim that was never recorded must not push the
	// counter negative.
	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		StayOccupancy(10, date("2026-09-01"), date("2026-09-02")), EmptyOccupancy()); err != nil {
		t.Fatalf("release: %v", err)
	}
	d := inv.day(10, "2026-09-01")
	if d.Reserved != 0 || d.Available != d.TotalRooms {
		t.Errorf("reserved=%d available=%d, want 0/%d", d.Reserved, d.Available, d.TotalRooms)
	}
}

func TestApplyRangeChangeLockOrder(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		EmptyOccupancy(), StayOccupancy(20, date("2026-09-05"), date("2026-09-06"))); err != nil {
		t.Fatalf("setup: %v", err)
	}
	inv.reset()

	// Change from late-type-20 to early-type-10: all four rows must be
	// locked in ascending (room type, date) order regardless of which
	// side they belong to.
	if err := engine.ApplyRangeChange(ctx, nil, testHotel,
		StayOccupancy(20, date("2026-09-05"), date("2026-09-06")),
		StayOccupancy(10, date("2026-09-01"), date("2026-09-03"))); err != nil {
		t.Fatalf("change: %v", err)
	}
	want := []invKey{
		{10, "2026-09-01"},
		{10, "2026-09-02"},
		{20, "2026-09-05"},
	}
	if len(inv.locks) != len(want) {
		t.Fatalf("locks = %v, want %v", inv.locks, want)
	}
	for i := range want {
		if inv.locks[i] != want[i] {
			t.Fatalf("lock %d = %v, want %v", i, inv.locks[i], want[i])
		}
	}
}

func TestAdjustBlocked(t *testing.T) {
	engine, inv, _ := newEngineFixture()
	ctx := context.Background()

	if err := engine.AdjustBlocked(ctx, nil, testHotel, 10, date("2026-09-01"), date("2026-09-03"), 1); err != nil {
		t.Fatalf("block: %v", err)
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		day := inv.day(10, d)
		if day.Blocked != 1 || day.Available != 1 {
			t.Errorf("%s: blocked=%d available=%d, want 1/1", d, day.Blocked, day.Available)
		}
	}

	// Blocking past capacity must reject the whole range untouched.
	inv.reset()
	err := engine.AdjustBlocked(ctx, nil, testHotel, 10, date("2026-09-01"), date("2026-09-03"), 2)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest on capacity overflow, got %v", err)
	}
	if len(inv.writes) != 0 {
		t.Errorf("rejected block must not write, wrote %v", inv.writes)
	}

	// Unblocking floors at zero.
	if err := engine.AdjustBlocked(ctx, nil, testHotel, 10, date("2026-09-01"), date("2026-09-03"), -5); err != nil {
		t.Fatalf("unblock: %v", err)
	}
	if day := inv.day(10, "2026-09-01"); day.Blocked != 0 || day.Available != day.TotalRooms {
		t.Errorf("blocked=%d available=%d after floor, want 0/%d", day.Blocked, day.Available, day.TotalRooms)
	}
}
