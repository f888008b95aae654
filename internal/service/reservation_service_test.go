package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

type serviceFixture struct {
	svc          *ReservationService
	inventory    *fakeInventory
	reservations *fakeReservations
	history      *fakeHistory
	rooms        *fakeRooms
}

func newServiceFixture() *serviceFixture {
	roomTypes := &fakeRoomTypes{types: map[uint64]*model.RoomType{
		10: {ID: 10, HotelID: testHotel, Name: "Standard", TotalRooms: 2, BaseRateCents: 10000, Currency: "USD"},
		20: {ID: 20, HotelID: testHotel, Name: "Deluxe", TotalRooms: 1, BaseRateCents: 20000, Currency: "USD"},
	}}
	hotels := &fakeHotels{ids: map[uint64]bool{testHotel: true}}
	rooms := &fakeRooms{rooms: map[uint64]*model.Room{
		101: {ID: 101, HotelID: testHotel, RoomTypeID: 10, RoomNumber: "101", IsActive: true},
		201: {ID: 201, HotelID: testHotel, RoomTypeID: 20, RoomNumber: "201", IsActive: true},
	}}
	rates := &fakeRates{roomTypes: roomTypes, overrides: map[rateKey]int64{}}
	inventory := newFakeInventory(roomTypes)
	reservations := newFakeReservations()
	history := &fakeHistory{}

	svc := NewReservationService(fakeTxRunner{}, hotels, roomTypes, rooms,
		rates, inventory, reservations, history)
	return &serviceFixture{
		svc:          svc,
		inventory:    inventory,
		reservations: reservations,
		history:      history,
		rooms:        rooms,
	}
}

func (f *serviceFixture) create(t *testing.T, roomTypeID uint64, in, out string) *model.Reservation {
	t.Helper()
	res, err := f.svc.Create(context.Background(), 7, CreateRequest{
		HotelID:    testHotel,
		RoomTypeID: roomTypeID,
		CheckIn:    date(in),
		CheckOut:   date(out),
		NumGuests:  2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return res
}

func TestCreateReservesEveryNight(t *testing.T) {
	f := newServiceFixture()

	res := f.create(t, 10, "2026-09-01", "2026-09-03")

	if res.Status != model.StatusPending {
		t.Errorf("status = %s, want PENDING", res.Status)
	}
	if res.UpgradeStatus != model.UpgradeNotEligible {
		t.Errorf("upgrade status = %s, want NOT_ELIGIBLE", res.UpgradeStatus)
	}
	if res.Nights != 2 {
		t.Errorf("nights = %d, want 2", res.Nights)
	}
	if res.PriceTotalCents != 20000 {
		t.Errorf("price = %d, want 20000", res.PriceTotalCents)
	}
	if res.Currency != "USD" {
		t.Errorf("currency = %q, want USD from room type", res.Currency)
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		if day := f.inventory.day(10, d); day == nil || day.Reserved != 1 {
			t.Errorf("%s not reserved", d)
		}
	}
	if f.inventory.day(10, "2026-09-03") != nil {
		t.Error("check-out date must not be reserved")
	}
}

func TestCreateValidation(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, 7, CreateRequest{
		HotelID: 99, RoomTypeID: 10,
		CheckIn: date("2026-09-01"), CheckOut: date("2026-09-02"), NumGuests: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown hotel: want ErrNotFound, got %v", err)
	}

	_, err = f.svc.Create(ctx, 7, CreateRequest{
		HotelID: testHotel, RoomTypeID: 99,
		CheckIn: date("2026-09-01"), CheckOut: date("2026-09-02"), NumGuests: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown room type: want ErrNotFound, got %v", err)
	}

	_, err = f.svc.Create(ctx, 7, CreateRequest{
		HotelID: testHotel, RoomTypeID: 10,
		CheckIn: date("2026-09-02"), CheckOut: date("2026-09-02"), NumGuests: 1,
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("zero-night stay: want ErrBadRequest, got %v", err)
	}

	_, err = f.svc.Create(ctx, 7, CreateRequest{
		HotelID: testHotel, RoomTypeID: 10,
		CheckIn: date("2026-09-01"), CheckOut: date("2026-09-02"), NumGuests: 0,
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("zero guests: want ErrBadRequest, got %v", err)
	}
}

func TestCreateOversell(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	// Deluxe has one room.
	f.create(t, 20, "2026-09-01", "2026-09-02")
	_, err := f.svc.Create(ctx, 8, CreateRequest{
		HotelID: testHotel, RoomTypeID: 20,
		CheckIn: date("2026-09-01"), CheckOut: date("2026-09-02"), NumGuests: 1,
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("oversell: want ErrBadRequest, got %v", err)
	}
	if day := f.inventory.day(20, "2026-09-01"); day.Reserved != 1 {
		t.Errorf("reserved = %d after rejected second booking, want 1", day.Reserved)
	}
	if len(f.reservations.byID) != 1 {
		t.Errorf("reservations = %d, want 1", len(f.reservations.byID))
	}
}

func TestCancelReleasesAndIsIdempotent(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-03")
	reason := "change of plans"
	canceled, err := f.svc.Cancel(ctx, testHotel, res.ID, &reason, nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != model.StatusCanceled {
		t.Errorf("status = %s, want CANCELED", canceled.Status)
	}
	if canceled.CanceledAt == nil {
		t.Error("CanceledAt not set")
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		if day := f.inventory.day(10, d); day.Reserved != 0 {
			t.Errorf("%s reserved = %d after cancel, want 0", d, day.Reserved)
		}
	}
	if len(f.history.entries) != 1 {
		t.Fatalf("audit rows = %d, want 1", len(f.history.entries))
	}

	// A second cancel is a pure no-op: no release, no audit row.
	f.inventory.reset()
	if _, err := f.svc.Cancel(ctx, testHotel, res.ID, nil, nil); err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if len(f.inventory.writes) != 0 {
		t.Errorf("second cancel wrote counters: %v", f.inventory.writes)
	}
	if len(f.history.entries) != 1 {
		t.Errorf("audit rows = %d after repeated cancel, want 1", len(f.history.entries))
	}
}

func TestCancelAfterCheckOutRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")
	st := model.StatusConfirmed
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{Status: &st}, StaffPolicy{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, testHotel, res.ID, nil); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := f.svc.CheckOut(ctx, testHotel, res.ID, nil); err != nil {
		t.Fatalf("check-out: %v", err)
	}
	_, err := f.svc.Cancel(ctx, testHotel, res.ID, nil, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("cancel after check-out: want ErrBadRequest, got %v", err)
	}
}

func TestLifecycleAuditTrail(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	actor := uint64(42)

	res := f.create(t, 10, "2026-09-01", "2026-09-02")
	st := model.StatusConfirmed
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{Status: &st, ActorID: &actor}, StaffPolicy{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, testHotel, res.ID, &actor); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	// Repeating check-in is a no-op with no extra audit row.
	again, err := f.svc.CheckIn(ctx, testHotel, res.ID, &actor)
	if err != nil {
		t.Fatalf("repeated check-in: %v", err)
	}
	if again.Status != model.StatusCheckedIn {
		t.Errorf("status = %s after repeated check-in, want CHECKED_IN", again.Status)
	}

	if _, err := f.svc.CheckOut(ctx, testHotel, res.ID, &actor); err != nil {
		t.Fatalf("check-out: %v", err)
	}

	want := [][2]model.Status{
		{model.StatusPending, model.StatusConfirmed},
		{model.StatusConfirmed, model.StatusCheckedIn},
		{model.StatusCheckedIn, model.StatusCheckedOut},
	}
	if len(f.history.entries) != len(want) {
		t.Fatalf("audit rows = %d, want %d", len(f.history.entries), len(want))
	}
	for i, w := range want {
		e := f.history.entries[i]
		if e.FromStatus != w[0] || e.ToStatus != w[1] {
			t.Errorf("audit %d: %s -> %s, want %s -> %s", i, e.FromStatus, e.ToStatus, w[0], w[1])
		}
	}
}

func TestCheckInFromPendingRejected(t *testing.T) {
	f := newServiceFixture()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")
	_, err := f.svc.CheckIn(context.Background(), testHotel, res.ID, nil)
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("check-in from PENDING: want ErrBadRequest, got %v", err)
	}
}

func TestModifyDatesRepricesAndMovesInventory(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-03")
	in, out := date("2026-09-02"), date("2026-09-05")
	updated, err := f.svc.Modify(ctx, testHotel, res.ID, Change{CheckIn: &in, CheckOut: &out}, StaffPolicy{})
	if err != nil {
		t.Fatalf("modify: %v", err)
	}
	if updated.Nights != 3 || updated.PriceTotalCents != 30000 {
		t.Errorf("nights=%d price=%d, want 3/30000", updated.Nights, updated.PriceTotalCents)
	}
	if day := f.inventory.day(10, "2026-09-01"); day.Reserved != 0 {
		t.Errorf("dropped day still reserved")
	}
	for _, d := range []string{"2026-09-02", "2026-09-03", "2026-09-04"} {
		if day := f.inventory.day(10, d); day == nil || day.Reserved != 1 {
			t.Errorf("%s not reserved after move", d)
		}
	}
}

func TestGuestPolicyDeniesPrivilegedFields(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")

	newType := uint64(20)
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{RoomTypeID: &newType}, GuestPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("room type change: want ErrBadRequest, got %v", err)
	}
	roomID := uint64(101)
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{RoomID: &roomID}, GuestPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("room assignment: want ErrBadRequest, got %v", err)
	}
	st := model.StatusConfirmed
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{Status: &st}, GuestPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Errorf("status change: want ErrBadRequest, got %v", err)
	}
	// Inventory must be untouched by the rejected patches.
	if day := f.inventory.day(20, "2026-09-01"); day != nil && day.Reserved != 0 {
		t.Error("rejected patch moved inventory")
	}
}

func TestModifyRoomAssignment(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")

	// A room of another type is rejected.
	wrong := uint64(201)
	if _, err := f.svc.Modify(ctx, testHotel, res.ID, Change{RoomID: &wrong}, StaffPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("wrong-type room: want ErrBadRequest, got %v", err)
	}

	right := uint64(101)
	updated, err := f.svc.Modify(ctx, testHotel, res.ID, Change{RoomID: &right}, StaffPolicy{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.RoomID == nil || *updated.RoomID != right {
		t.Fatal("room not assigned")
	}

	// Changing the room type drops the now-mismatched assignment.
	newType := uint64(20)
	updated, err = f.svc.Modify(ctx, testHotel, res.ID, Change{RoomTypeID: &newType}, StaffPolicy{})
	if err != nil {
		t.Fatalf("type change: %v", err)
	}
	if updated.RoomID != nil {
		t.Error("room assignment must be dropped on type change")
	}
}

func TestUpgradeFlow(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-03")

	// Not eligible yet.
	if _, err := f.svc.ApplyUpgrade(ctx, testHotel, res.ID, 20, StaffPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("upgrade before eligibility: want ErrBadRequest, got %v", err)
	}

	marked, err := f.svc.MarkUpgradeEligible(ctx, testHotel, res.ID)
	if err != nil {
		t.Fatalf("mark eligible: %v", err)
	}
	if marked.UpgradeStatus != model.UpgradeEligible {
		t.Fatalf("upgrade status = %s, want ELIGIBLE", marked.UpgradeStatus)
	}

	upgraded, err := f.svc.ApplyUpgrade(ctx, testHotel, res.ID, 20, StaffPolicy{})
	if err != nil {
		t.Fatalf("apply upgrade: %v", err)
	}
	if upgraded.RoomTypeID != 20 {
		t.Errorf("room type = %d, want 20", upgraded.RoomTypeID)
	}
	if upgraded.UpgradeStatus != model.UpgradeApplied || upgraded.UpgradedAt == nil {
		t.Error("upgrade not recorded as applied")
	}
	if upgraded.PriceTotalCents != 40000 {
		t.Errorf("price = %d after upgrade, want 40000", upgraded.PriceTotalCents)
	}
	for _, d := range []string{"2026-09-01", "2026-09-02"} {
		if day := f.inventory.day(10, d); day.Reserved != 0 {
			t.Errorf("old type %s still reserved", d)
		}
		if day := f.inventory.day(20, d); day == nil || day.Reserved != 1 {
			t.Errorf("new type %s not reserved", d)
		}
	}

	// Re-applying the same upgrade is a no-op; a different type fails.
	f.inventory.reset()
	if _, err := f.svc.ApplyUpgrade(ctx, testHotel, res.ID, 20, StaffPolicy{}); err != nil {
		t.Fatalf("repeat upgrade: %v", err)
	}
	if len(f.inventory.writes) != 0 {
		t.Errorf("repeated upgrade wrote counters: %v", f.inventory.writes)
	}
	if _, err := f.svc.ApplyUpgrade(ctx, testHotel, res.ID, 10, StaffPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("second distinct upgrade: want ErrBadRequest, got %v", err)
	}
}

func TestModifyCannotCancel(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	// Deluxe has one room; losing its night would be unrecoverable.
	res := f.create(t, 20, "2026-09-01", "2026-09-02")

	st := model.StatusCanceled
	_, err := f.svc.Modify(ctx, testHotel, res.ID, Change{Status: &st}, StaffPolicy{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("cancel via patch: want ErrBadRequest, got %v", err)
	}
	if day := f.inventory.day(20, "2026-09-01"); day.Reserved != 1 {
		t.Errorf("reserved = %d after rejected patch, want 1", day.Reserved)
	}

	// The dedicated operation still works and releases the night.
	canceled, err := f.svc.Cancel(ctx, testHotel, res.ID, nil, nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.CanceledAt == nil {
		t.Error("CanceledAt not set")
	}
	if day := f.inventory.day(20, "2026-09-01"); day.Reserved != 0 {
		t.Errorf("reserved = %d after cancel, want 0", day.Reserved)
	}
}

func TestModifyTerminalReservationRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")
	if _, err := f.svc.Cancel(ctx, testHotel, res.ID, nil, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// A canceled reservation must not reserve new nights.
	f.inventory.reset()
	in, out := date("2026-09-10"), date("2026-09-12")
	_, err := f.svc.Modify(ctx, testHotel, res.ID, Change{CheckIn: &in, CheckOut: &out}, StaffPolicy{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("modify canceled reservation: want ErrBadRequest, got %v", err)
	}
	if len(f.inventory.writes) != 0 {
		t.Errorf("rejected modify wrote counters: %v", f.inventory.writes)
	}
	if day := f.inventory.day(10, "2026-09-10"); day != nil && day.Reserved != 0 {
		t.Errorf("canceled reservation reserved a new day, reserved = %d", day.Reserved)
	}

	// Same for a checked-out reservation, even for harmless fields.
	res2 := f.create(t, 10, "2026-09-01", "2026-09-02")
	st := model.StatusConfirmed
	if _, err := f.svc.Modify(ctx, testHotel, res2.ID, Change{Status: &st}, StaffPolicy{}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, testHotel, res2.ID, nil); err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if _, err := f.svc.CheckOut(ctx, testHotel, res2.ID, nil); err != nil {
		t.Fatalf("check-out: %v", err)
	}
	notes := "late departure"
	if _, err := f.svc.Modify(ctx, testHotel, res2.ID, Change{Notes: &notes}, StaffPolicy{}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("modify checked-out reservation: want ErrBadRequest, got %v", err)
	}
}

func TestUpgradeAfterCancelRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")
	if _, err := f.svc.MarkUpgradeEligible(ctx, testHotel, res.ID); err != nil {
		t.Fatalf("mark eligible: %v", err)
	}
	if _, err := f.svc.Cancel(ctx, testHotel, res.ID, nil, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	f.inventory.reset()
	_, err := f.svc.ApplyUpgrade(ctx, testHotel, res.ID, 20, StaffPolicy{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("upgrade of canceled reservation: want ErrBadRequest, got %v", err)
	}
	if len(f.inventory.writes) != 0 {
		t.Errorf("rejected upgrade wrote counters: %v", f.inventory.writes)
	}
}

func TestOperationsOnForeignHotel(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	res := f.create(t, 10, "2026-09-01", "2026-09-02")

	if _, err := f.svc.Cancel(ctx, 99, res.ID, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("cancel via wrong hotel: want ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Modify(ctx, 99, res.ID, Change{}, StaffPolicy{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("modify via wrong hotel: want ErrNotFound, got %v", err)
	}
	if _, err := f.svc.CheckIn(ctx, 99, res.ID, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("check-in via wrong hotel: want ErrNotFound, got %v", err)
	}
}
