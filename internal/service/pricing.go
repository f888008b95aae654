package service

import (
	"context"
	"database/sql"
	"time"
)

// Nights returns the number of nights between two UTC dates,
// check-out exclusive.
func Nights(checkIn, checkOut time.Time) int {
	return int(DateOnly(checkOut).Sub(DateOnly(checkIn)) / (24 * time.Hour))
}

// Pricer sums per-night prices across a stay.
type Pricer struct {
	Rates RateStore
}

// NewPricer constructs a Pricer over the given rate store.
func NewPricer(rates RateStore) *Pricer { return &Pricer{Rates: rates} }

// StayTotal returns the total price in cents for every night in
// [checkIn, checkOut). A night without any price fails the whole
// computation.
func (p *Pricer) StayTotal(ctx context.Context, tx *sql.Tx, hotelID, roomTypeID uint64, checkIn, checkOut time.Time) (int64, error) {
	var total int64
	for night := DateOnly(checkIn); night.Before(DateOnly(checkOut)); night = night.AddDate(0, 0, 1) {
		price, ok, err := p.Rates.NightlyPriceTx(ctx, tx, hotelID, roomTypeID, night)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, badRequestf("no nightly price for room type %d on %s", roomTypeID, dateKey(night))
		}
		total += price
	}
	return total, nil
}
