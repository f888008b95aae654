package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotel-reservation/internal/model"
	"github.com/iliyamo/hotel-reservation/internal/repository"
)

// ReservationService orchestrates the reservation lifecycle. Every
// public operation runs as one transaction: ownership guards, pricing,
// the inventory range change, the status transition and the final
// persist all commit or roll back together, so a failure at any step
// leaves no partial state behind.
type ReservationService struct {
	Tx           TxRunner
	Hotels       HotelStore
	RoomTypes    RoomTypeStore
	Rooms        RoomStore
	Reservations ReservationStore
	History      HistoryStore
	Engine       *InventoryEngine
	Statuses     *StatusMachine
	Pricer       *Pricer
}

// NewReservationService wires the orchestrator and its two engines
// over the given stores.
func NewReservationService(tx TxRunner, hotels HotelStore, roomTypes RoomTypeStore, rooms RoomStore,
	rates RateStore, inventory InventoryStore, reservations ReservationStore, history HistoryStore) *ReservationService {
	return &ReservationService{
		Tx:           tx,
		Hotels:       hotels,
		RoomTypes:    roomTypes,
		Rooms:        rooms,
		Reservations: reservations,
		History:      history,
		Engine:       NewInventoryEngine(inventory, roomTypes),
		Statuses:     NewStatusMachine(reservations, history),
		Pricer:       NewPricer(rates),
	}
}

// CreateRequest carries the fields needed to open a new reservation.
// PriceTotalCents overrides the computed stay total when supplied.
type CreateRequest struct {
	HotelID         uint64
	RoomTypeID      uint64
	CheckIn         time.Time
	CheckOut        time.Time
	NumGuests       int
	Currency        string
	PriceTotalCents *int64
	Notes           *string
}

// Change is a patch applied by Modify. Nil fields are left untouched.
// RoomTypeID, RoomID and Status are privileged and gated by the
// caller's Policy.
type Change struct {
	RoomTypeID      *uint64
	RoomID          *uint64
	CheckIn         *time.Time
	CheckOut        *time.Time
	NumGuests       *int
	Currency        *string
	PriceTotalCents *int64
	Notes           *string
	Status          *model.Status
	StatusReason    *string
	ActorID         *uint64
}

// Create validates the request, prices the stay, reserves inventory
// for every night and persists a PENDING reservation.
func (s *ReservationService) Create(ctx context.Context, userID uint64, req CreateRequest) (*model.Reservation, error) {
	if req.NumGuests <= 0 {
		return nil, badRequestf("number of guests must be positive, got %d", req.NumGuests)
	}
	if req.PriceTotalCents != nil && *req.PriceTotalCents < 0 {
		return nil, badRequestf("price must not be negative, got %d", *req.PriceTotalCents)
	}
	checkIn, checkOut := DateOnly(req.CheckIn), DateOnly(req.CheckOut)
	if !checkOut.After(checkIn) {
		return nil, badRequestf("check-out %s must be after check-in %s", dateKey(checkOut), dateKey(checkIn))
	}

	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.Hotels.ExistsTx(ctx, tx, req.HotelID)
		if err != nil {
			return err
		}
		if !ok {
			return notFoundf("hotel %d", req.HotelID)
		}
		rt, err := s.roomTypeInHotel(ctx, tx, req.HotelID, req.RoomTypeID)
		if err != nil {
			return err
		}

		total := int64(0)
		if req.PriceTotalCents != nil {
			total = *req.PriceTotalCents
		} else {
			total, err = s.Pricer.StayTotal(ctx, tx, req.HotelID, rt.ID, checkIn, checkOut)
			if err != nil {
				return err
			}
		}
		currency := strings.ToUpper(strings.TrimSpace(req.Currency))
		if currency == "" {
			currency = rt.Currency
		}

		if err := s.Engine.ApplyRangeChange(ctx, tx, req.HotelID,
			EmptyOccupancy(), StayOccupancy(rt.ID, checkIn, checkOut)); err != nil {
			return err
		}

		res = &model.Reservation{
			HotelID:         req.HotelID,
			RoomTypeID:      rt.ID,
			UserID:          userID,
			Status:          model.StatusPending,
			UpgradeStatus:   model.UpgradeNotEligible,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			Nights:          Nights(checkIn, checkOut),
			NumGuests:       req.NumGuests,
			Currency:        currency,
			PriceTotalCents: total,
			Notes:           req.Notes,
		}
		return s.Reservations.CreateTx(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Modify patches a reservation under the caller's policy. When the
// effective dates or room type differ from the current ones, the
// inventory range change runs before any other field is applied.
// Canceled and checked-out reservations reject every patch, and a
// patch cannot cancel; cancellation goes through Cancel so the
// inventory release is never skipped.
func (s *ReservationService) Modify(ctx context.Context, hotelID, reservationID uint64, ch Change, pol Policy) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = s.modifyTx(ctx, tx, hotelID, reservationID, ch, pol)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ReservationService) modifyTx(ctx context.Context, tx *sql.Tx, hotelID, reservationID uint64, ch Change, pol Policy) (*model.Reservation, error) {
	res, err := s.reservationInHotel(ctx, tx, hotelID, reservationID)
	if err != nil {
		return nil, err
	}

	// A terminal reservation no longer holds inventory, so a patch
	// against it would reserve nights on behalf of a dead stay.
	switch res.Status {
	case model.StatusCanceled:
		return nil, badRequestf("reservation %d is canceled", res.ID)
	case model.StatusCheckedOut:
		return nil, badRequestf("reservation %d is already checked out", res.ID)
	}

	// Capability gates come first: a denied field fails the whole
	// patch before anything is computed or locked.
	if ch.RoomTypeID != nil && !pol.AllowChangeRoomType() {
		return nil, badRequestf("changing the room type is not permitted for this caller")
	}
	if ch.RoomID != nil && !pol.AllowAssignRoom() {
		return nil, badRequestf("assigning a room is not permitted for this caller")
	}
	if ch.Status != nil && !pol.AllowStatusChangeTo(*ch.Status) {
		return nil, badRequestf("changing the status to %s is not permitted for this caller", *ch.Status)
	}
	// Cancellation must release the stay's inventory; only Cancel
	// does that, so a patch cannot set the status to CANCELED.
	if ch.Status != nil && *ch.Status == model.StatusCanceled {
		return nil, badRequestf("reservation %d cannot be canceled through a patch", res.ID)
	}

	// Effective stay: requested values where present, else current.
	effType := res.RoomTypeID
	if ch.RoomTypeID != nil {
		rt, err := s.roomTypeInHotel(ctx, tx, hotelID, *ch.RoomTypeID)
		if err != nil {
			return nil, err
		}
		effType = rt.ID
	}
	effIn, effOut := res.CheckIn, res.CheckOut
	if ch.CheckIn != nil {
		effIn = DateOnly(*ch.CheckIn)
	}
	if ch.CheckOut != nil {
		effOut = DateOnly(*ch.CheckOut)
	}

	stayChanged := effType != res.RoomTypeID || !effIn.Equal(res.CheckIn) || !effOut.Equal(res.CheckOut)
	if stayChanged {
		if !effOut.After(effIn) {
			return nil, badRequestf("check-out %s must be after check-in %s", dateKey(effOut), dateKey(effIn))
		}
		total, err := s.Pricer.StayTotal(ctx, tx, hotelID, effType, effIn, effOut)
		if err != nil {
			return nil, err
		}
		// Reconcile inventory before touching any other field.
		if err := s.Engine.ApplyRangeChange(ctx, tx, hotelID,
			StayOccupancy(res.RoomTypeID, res.CheckIn, res.CheckOut),
			StayOccupancy(effType, effIn, effOut)); err != nil {
			return nil, err
		}
		if effType != res.RoomTypeID {
			// Moving to a different type drops any concrete room of the
			// old type.
			res.RoomID = nil
		}
		res.RoomTypeID = effType
		res.CheckIn = effIn
		res.CheckOut = effOut
		res.Nights = Nights(effIn, effOut)
		res.PriceTotalCents = total
	}

	if ch.RoomID != nil {
		room, err := s.Rooms.GetTx(ctx, tx, *ch.RoomID)
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, notFoundf("room %d", *ch.RoomID)
		}
		if err != nil {
			return nil, err
		}
		if room.HotelID != hotelID {
			return nil, badRequestf("room %d does not belong to hotel %d", room.ID, hotelID)
		}
		if room.RoomTypeID != res.RoomTypeID {
			return nil, badRequestf("room %d is not of room type %d", room.ID, res.RoomTypeID)
		}
		id := room.ID
		res.RoomID = &id
	}

	if ch.NumGuests != nil {
		if *ch.NumGuests <= 0 {
			return nil, badRequestf("number of guests must be positive, got %d", *ch.NumGuests)
		}
		res.NumGuests = *ch.NumGuests
	}
	if ch.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*ch.Currency))
		if cur == "" {
			return nil, badRequestf("currency must not be empty")
		}
		res.Currency = cur
	}
	if ch.PriceTotalCents != nil {
		if *ch.PriceTotalCents < 0 {
			return nil, badRequestf("price must not be negative, got %d", *ch.PriceTotalCents)
		}
		res.PriceTotalCents = *ch.PriceTotalCents
	}
	if ch.Notes != nil {
		res.Notes = ch.Notes
	}

	if ch.Status != nil {
		// The status machine persists the reservation together with
		// the audit row.
		if err := s.Statuses.ChangeStatus(ctx, tx, res, *ch.Status, ch.StatusReason, ch.ActorID); err != nil {
			return nil, err
		}
		return res, nil
	}
	if err := s.Reservations.UpdateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// ApplyUpgrade moves an upgrade-eligible reservation to a new room
// type, shifting the unchanged date range's inventory across types.
// Calling it again for the type already applied is a no-op.
func (s *ReservationService) ApplyUpgrade(ctx context.Context, hotelID, reservationID, newRoomTypeID uint64, pol Policy) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = s.reservationInHotel(ctx, tx, hotelID, reservationID)
		if err != nil {
			return err
		}
		switch res.Status {
		case model.StatusCanceled, model.StatusCheckedOut:
			return badRequestf("reservation %d in status %s cannot be upgraded", res.ID, res.Status)
		}
		switch res.UpgradeStatus {
		case model.UpgradeApplied:
			if res.RoomTypeID == newRoomTypeID {
				return nil // already applied to this type
			}
			return badRequestf("reservation %d already upgraded to room type %d", res.ID, res.RoomTypeID)
		case model.UpgradeEligible:
			// proceed
		default:
			return badRequestf("reservation %d is not eligible for an upgrade", res.ID)
		}
		res, err = s.modifyTx(ctx, tx, hotelID, reservationID, Change{RoomTypeID: &newRoomTypeID}, pol)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		res.UpgradeStatus = model.UpgradeApplied
		res.UpgradedAt = &now
		return s.Reservations.UpdateTx(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// MarkUpgradeEligible flags a live reservation as upgrade-eligible.
func (s *ReservationService) MarkUpgradeEligible(ctx context.Context, hotelID, reservationID uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = s.reservationInHotel(ctx, tx, hotelID, reservationID)
		if err != nil {
			return err
		}
		if res.UpgradeStatus == model.UpgradeApplied {
			return badRequestf("reservation %d already has an applied upgrade", res.ID)
		}
		switch res.Status {
		case model.StatusPending, model.StatusConfirmed:
			// eligible states
		default:
			return badRequestf("reservation %d in status %s cannot become upgrade-eligible", res.ID, res.Status)
		}
		if res.UpgradeStatus == model.UpgradeEligible {
			return nil
		}
		res.UpgradeStatus = model.UpgradeEligible
		return s.Reservations.UpdateTx(ctx, tx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// CheckIn transitions CONFIRMED -> CHECKED_IN. A reservation already
// checked in is returned unchanged with no new audit row.
func (s *ReservationService) CheckIn(ctx context.Context, hotelID, reservationID uint64, actorID *uint64) (*model.Reservation, error) {
	return s.moveTo(ctx, hotelID, reservationID, model.StatusCheckedIn, actorID)
}

// CheckOut transitions CHECKED_IN -> CHECKED_OUT, idempotently.
func (s *ReservationService) CheckOut(ctx context.Context, hotelID, reservationID uint64, actorID *uint64) (*model.Reservation, error) {
	return s.moveTo(ctx, hotelID, reservationID, model.StatusCheckedOut, actorID)
}

func (s *ReservationService) moveTo(ctx context.Context, hotelID, reservationID uint64, target model.Status, actorID *uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = s.reservationInHotel(ctx, tx, hotelID, reservationID)
		if err != nil {
			return err
		}
		if res.Status == model.StatusCanceled {
			return badRequestf("reservation %d is canceled", res.ID)
		}
		if res.Status == target {
			return nil // idempotent repeat, no audit row
		}
		return s.Statuses.ChangeStatus(ctx, tx, res, target, nil, actorID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel releases the reservation's inventory and transitions it to
// CANCELED. A second cancel is a pure no-op; canceling after check-out
// fails.
func (s *ReservationService) Cancel(ctx context.Context, hotelID, reservationID uint64, reason *string, actorID *uint64) (*model.Reservation, error) {
	var res *model.Reservation
	err := s.Tx.WithinTx(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = s.reservationInHotel(ctx, tx, hotelID, reservationID)
		if err != nil {
			return err
		}
		if res.Status == model.StatusCanceled {
			return nil
		}
		if res.Status == model.StatusCheckedOut {
			return badRequestf("reservation %d is already checked out", res.ID)
		}
		if err := s.Engine.ApplyRangeChange(ctx, tx, hotelID,
			StayOccupancy(res.RoomTypeID, res.CheckIn, res.CheckOut), EmptyOccupancy()); err != nil {
			return err
		}
		now := time.Now().UTC()
		res.CanceledAt = &now
		return s.Statuses.ChangeStatus(ctx, tx, res, model.StatusCanceled, reason, actorID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// roomTypeInHotel loads a room type and asserts it belongs to the hotel.
func (s *ReservationService) roomTypeInHotel(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64) (*model.RoomType, error) {
	rt, err := s.RoomTypes.GetTx(ctx, tx, roomTypeID)
	if errors.Is(err, repository.ErrRoomTypeNotFound) {
		return nil, notFoundf("room type %d", roomTypeID)
	}
	if err != nil {
		return nil, err
	}
	if rt.HotelID != hotelID {
		return nil, badRequestf("room type %d does not belong to hotel %d", rt.ID, hotelID)
	}
	return rt, nil
}

// reservationInHotel loads a reservation with a row lock and asserts
// it belongs to the hotel.
func (s *ReservationService) reservationInHotel(ctx context.Context, tx *sql.Tx, hotelID, reservationID uint64) (*model.Reservation, error) {
	res, err := s.Reservations.GetForUpdateTx(ctx, tx, reservationID)
	if errors.Is(err, repository.ErrReservationNotFound) {
		return nil, notFoundf("reservation %d", reservationID)
	}
	if err != nil {
		return nil, err
	}
	if res.HotelID != hotelID {
		return nil, notFoundf("reservation %d in hotel %d", reservationID, hotelID)
	}
	return res, nil
}
