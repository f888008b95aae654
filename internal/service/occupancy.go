package service

import (
	"time"
)

// Occupancy names a claim on inventory: a room type plus a stay range
// with check-out exclusive. A side of a range change is either fully
// empty (no claim) or fully specified; anything in between is a
// caller error.
type Occupancy struct {
	RoomTypeID *uint64
	CheckIn    *time.Time
	CheckOut   *time.Time
}

// EmptyOccupancy is the "no claim" side of a range change, used for
// pure creation (old side) and pure cancellation (new side).
func EmptyOccupancy() Occupancy { return Occupancy{} }

// StayOccupancy builds a fully specified occupancy.
func StayOccupancy(roomTypeID uint64, checkIn, checkOut time.Time) Occupancy {
	in := DateOnly(checkIn)
	out := DateOnly(checkOut)
	return Occupancy{RoomTypeID: &roomTypeID, CheckIn: &in, CheckOut: &out}
}

func (o Occupancy) isEmpty() bool {
	return o.RoomTypeID == nil && o.CheckIn == nil && o.CheckOut == nil
}

func (o Occupancy) isComplete() bool {
	return o.RoomTypeID != nil && o.CheckIn != nil && o.CheckOut != nil
}

// descriptor is a normalized occupancy: the room type plus the set of
// individual stay dates, keyed by YYYY-MM-DD. A nil *descriptor means
// the side is empty.
type descriptor struct {
	roomTypeID uint64
	days       map[string]time.Time
}

func newDescriptor(roomTypeID uint64, checkIn, checkOut time.Time) *descriptor {
	d := &descriptor{roomTypeID: roomTypeID, days: make(map[string]time.Time)}
	for day := DateOnly(checkIn); day.Before(DateOnly(checkOut)); day = day.AddDate(0, 0, 1) {
		d.days[dateKey(day)] = day
	}
	return d
}

func (d *descriptor) holds(roomTypeID uint64, key string) bool {
	if d == nil || d.roomTypeID != roomTypeID {
		return false
	}
	_, ok := d.days[key]
	return ok
}

// sameClaim reports whether both descriptors reference the same room
// type and the exact same date set.
func sameClaim(a, b *descriptor) bool {
	if a == nil || b == nil {
		return false
	}
	if a.roomTypeID != b.roomTypeID || len(a.days) != len(b.days) {
		return false
	}
	for k := range a.days {
		if _, ok := b.days[k]; !ok {
			return false
		}
	}
	return true
}

// DateOnly truncates t to UTC midnight. All stay dates flow through
// this before being compared or stored.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
