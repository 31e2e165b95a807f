// Package calendar derives render-ready models (month grids, per-day event
// indexes, time labels) from raw event data. Everything here is pure: no I/O,
// no clocks, no globals.
package calendar

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey identifies a local calendar day, serialized as YYYY-MM-DD.
type DayKey string

// KeyOf returns the DayKey of t as observed in loc. A nil loc means
// time.Local.
func KeyOf(t time.Time, loc *time.Location) DayKey {
	return DayKey(Midnight(t, loc).Format(dayKeyLayout))
}

// Midnight normalizes t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Time parses the key back into local midnight.
func (k DayKey) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dayKeyLayout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid day key %q: %w", string(k), err)
	}
	return t, nil
}

func (k DayKey) String() string { return string(k) }
