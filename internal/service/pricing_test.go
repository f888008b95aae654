package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestNights(t *testing.T) {
	cases := []struct {
		in, out string
		want    int
	}{
		{"2026-09-01", "2026-09-02", 1},
		{"2026-09-01", "2026-09-04", 3},
		{"2026-12-30", "2027-01-02", 3},
	}
	for _, c := range cases {
		if got := Nights(date(c.in), date(c.out)); got != c.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestStayTotalWithOverride(t *testing.T) {
	roomTypes := &fakeRoomTypes{types: map[uint64]*model.RoomType{
		10: {ID: 10, HotelID: testHotel, TotalRooms: 2, BaseRateCents: 10000, Currency: "USD"},
	}}
	rates := &fakeRates{
		roomTypes: roomTypes,
		overrides: map[rateKey]int64{{10, "2026-09-02"}: 15000},
	}
	p := NewPricer(rates)

	// Night one prices at the base rate, night two at the override.
	total, err := p.StayTotal(context.Background(), nil, testHotel, 10, date("2026-09-01"), date("2026-09-03"))
	if err != nil {
		t.Fatalf("StayTotal: %v", err)
	}
	if total != 25000 {
		t.Errorf("total = %d, want 25000", total)
	}
}

func TestStayTotalMissingNight(t *testing.T) {
	roomTypes := &fakeRoomTypes{types: map[uint64]*model.RoomType{
		10: {ID: 10, HotelID: testHotel, TotalRooms: 2, BaseRateCents: 0, Currency: "USD"},
	}}
	rates := &fakeRates{
		roomTypes: roomTypes,
		overrides: map[rateKey]int64{{10, "2026-09-01"}: 15000},
	}
	p := NewPricer(rates)

	// The second night has no override and the base rate is unset.
	_, err := p.StayTotal(context.Background(), nil, testHotel, 10, date("2026-09-01"), date("2026-09-03"))
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("want ErrBadRequest for unpriceable night, got %v", err)
	}
}
