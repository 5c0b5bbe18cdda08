// Package distribute caps the slot list shown to the user while keeping
// every requested day represented.
package distribute

import (
	"sort"
	"time"

	"github.com/slotwise/slotwise/internal/domain/model"
)

// Distribute selects at most maxResults slots. A single-day input returns
// the top scorers outright. A multi-day input first grants each day a quota
// of max(1, maxResults/dayCount) of its own top scorers, then fills any
// remaining capacity with the best unselected slots from anywhere, so one
// strong day cannot crowd the others out. Output is ordered by day, score
// descending within a day.
func Distribute(slots []model.CandidateSlot, maxResults int) []model.CandidateSlot {
	if len(slots) == 0 {
		return nil
	}
	if maxResults <= 0 || maxResults > len(slots) {
		maxResults = len(slots)
	}

	byDay := make(map[time.Time][]int)
	for i := range slots {
		day := slots[i].Day()
		byDay[day] = append(byDay[day], i)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	selected := make(map[int]struct{}, maxResults)

	if len(days) == 1 {
		order := sortedByScore(slots, byDay[days[0]])
		for _, i := range order[:maxResults] {
			selected[i] = struct{}{}
		}
		return assemble(slots, days, byDay, selected)
	}

	quota := maxResults / len(days)
	if quota < 1 {
		quota = 1
	}
	for _, day := range days {
		order := sortedByScore(slots, byDay[day])
		for k := 0; k < quota && k < len(order); k++ {
			if len(selected) == maxResults {
				break
			}
			selected[order[k]] = struct{}{}
		}
	}

	// Fill remaining capacity with the next-best slots from anywhere.
	if len(selected) < maxResults {
		all := make([]int, 0, len(slots))
		for i := range slots {
			all = append(all, i)
		}
		for _, i := range sortedByScore(slots, all) {
			if len(selected) == maxResults {
				break
			}
			if _, ok := selected[i]; ok {
				continue
			}
			selected[i] = struct{}{}
		}
	}

	return assemble(slots, days, byDay, selected)
}

// sortedByScore returns the given indices ordered by score descending, with
// earlier start times first among equals.
func sortedByScore(slots []model.CandidateSlot, idx []int) []int {
	order := make([]int, len(idx))
	copy(order, idx)
	sort.SliceStable(order, func(a, b int) bool {
		if slots[order[a]].Score != slots[order[b]].Score {
			return slots[order[a]].Score > slots[order[b]].Score
		}
		return slots[order[a]].StartTime.Before(slots[order[b]].StartTime)
	})
	return order
}

func assemble(slots []model.CandidateSlot, days []time.Time, byDay map[time.Time][]int, selected map[int]struct{}) []model.CandidateSlot {
	out := make([]model.CandidateSlot, 0, len(selected))
	for _, day := range days {
		for _, i := range sortedByScore(slots, byDay[day]) {
			if _, ok := selected[i]; ok {
				out = append(out, slots[i])
			}
		}
	}
	return out
}
