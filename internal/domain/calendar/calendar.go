// Package calendar provides business-day arithmetic: enumeration of
// Monday-Friday dates in a range and weekend tests. Holidays are out of
// scope; a business day is any weekday.
package calendar

import (
	"iter"
	"time"
)

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Enumerate yields every business day in [start, end] inclusive, ascending,
// with times truncated to midnight in start's location. The sequence is
// finite and restartable. An inverted range yields nothing; callers are
// expected to validate ordering earlier.
func Enumerate(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		day := midnight(start)
		last := midnight(end)
		for !day.After(last) {
			if !IsWeekend(day) {
				if !yield(day) {
					return
				}
			}
			day = day.AddDate(0, 0, 1)
		}
	}
}

// Days collects Enumerate into a slice.
func Days(start, end time.Time) []time.Time {
	var out []time.Time
	for d := range Enumerate(start, end) {
		out = append(out, d)
	}
	return out
}

// NextBusinessDay snaps t forward to the first business day on or after it,
// preserving the time of day.
func NextBusinessDay(t time.Time) time.Time {
	for IsWeekend(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
