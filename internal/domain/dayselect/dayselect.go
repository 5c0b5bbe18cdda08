// Package dayselect narrows an enumerated business-day sequence according
// to a day selector: full range, the first N days, or specific weekdays.
package dayselect

import (
	"strings"
	"time"

	"github.com/slotwise/slotwise/internal/domain/model"
)

// Resolve applies sel to days and returns the surviving subset.
// Input order is preserved; days are never reordered or invented.
//
// A firstN selector with a missing or non-positive N degrades to fullRange.
// A specificDays selector that matches nothing returns ErrNoMatchingDays:
// callers must surface that to the user instead of substituting other days.
func Resolve(days []time.Time, sel model.DaySelector) ([]time.Time, error) {
	switch sel.Mode {
	case model.SelectFirstN:
		if sel.N <= 0 {
			return days, nil
		}
		if sel.N >= len(days) {
			return days, nil
		}
		return days[:sel.N], nil

	case model.SelectSpecificDays:
		if len(sel.DaysOfWeek) == 0 {
			return days, nil
		}
		wanted := make(map[string]struct{}, len(sel.DaysOfWeek))
		for _, d := range sel.DaysOfWeek {
			abbr := strings.ToLower(strings.TrimSpace(d))
			if len(abbr) > 3 {
				abbr = abbr[:3]
			}
			wanted[abbr] = struct{}{}
		}
		var kept []time.Time
		for _, day := range days {
			if _, ok := wanted[weekdayAbbr(day)]; ok {
				kept = append(kept, day)
			}
		}
		if len(kept) == 0 {
			return nil, ErrNoMatchingDays
		}
		return kept, nil

	default:
		// fullRange and anything unrecognized pass through unchanged.
		return days, nil
	}
}

// Bounds returns the effective start and end derived from the first and
// last surviving day. ok is false for an empty set.
func Bounds(days []time.Time) (start, end time.Time, ok bool) {
	if len(days) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return days[0], days[len(days)-1], true
}

func weekdayAbbr(t time.Time) string {
	return strings.ToLower(t.Weekday().String()[:3])
}
