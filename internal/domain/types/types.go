// Package types contains read-side shapes shared between the service and
// the HTTP API.
package types

import (
	"time"

	"github.com/slotwise/slotwise/internal/domain/model"
)

// SlotView is the API-facing projection of a ranked candidate slot.
type SlotView struct {
	Start        string   `json:"start"`
	End          string   `json:"end"`
	Score        float64  `json:"score"`
	Available    int      `json:"available"`
	Total        int      `json:"total"`
	Participants []string `json:"participants"`
	Recommended  bool     `json:"recommended"`
}

// FromSlot projects one candidate slot into its API shape. Scores are
// reported on the display scale.
func FromSlot(s model.CandidateSlot) SlotView {
	return SlotView{
		Start:        s.StartTime.Format(time.RFC3339),
		End:          s.EndTime.Format(time.RFC3339),
		Score:        s.DisplayScore(),
		Available:    len(s.AvailableParticipants),
		Total:        s.TotalParticipants,
		Participants: s.AvailableParticipants,
		Recommended:  s.IsRecommended,
	}
}

// FromSlots projects a ranked slot list, preserving order.
func FromSlots(slots []model.CandidateSlot) []SlotView {
	out := make([]SlotView, len(slots))
	for i, s := range slots {
		out[i] = FromSlot(s)
	}
	return out
}
