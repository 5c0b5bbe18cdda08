// Package scoring computes the composite slot score and flags the
// recommended slot of each day.
package scoring

import (
	"math/rand"
	"time"

	"github.com/slotwise/slotwise/internal/domain/model"
)

// Scoring weights on the internal [0,1] scale. The display scale is x100.
const (
	ratioWeight    = 0.9
	morningBonus   = 0.05 // start hour in [9,11]
	afternoonBonus = 0.03 // start hour in [14,15]
	jitterMax      = 0.05

	// Recommendation boost: the top slot of a day below this display-scale
	// threshold gets a cosmetic bump, capped at the maximum score.
	recommendThreshold = 0.95
	recommendBoost     = 0.05
	maxScore           = 1.0
)

// Scorer attaches composite scores to candidate slots. The random source is
// injected so jitter is reproducible under a fixed seed yet varies across
// independent requests.
type Scorer struct {
	rng *rand.Rand
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithRand injects the pseudo-random source used for tie-break jitter.
func WithRand(rng *rand.Rand) Option {
	return func(s *Scorer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed is a convenience wrapper over WithRand for a fixed seed.
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed))) //nolint:gosec // jitter, not crypto
}

// NewScorer creates a Scorer. Without options the source is seeded from the
// wall clock; orchestrators seed per request.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // jitter, not crypto
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreSlots computes and attaches the composite score for every slot:
// availability ratio weighted at 0.9, a small time-of-day nudge, and uniform
// jitter in [0, 0.05) to break ties.
func (s *Scorer) ScoreSlots(slots []model.CandidateSlot) {
	for i := range slots {
		slots[i].Score = slots[i].AvailabilityRatio()*ratioWeight +
			timeOfDayBonus(slots[i].StartTime.Hour()) +
			s.rng.Float64()*jitterMax
	}
}

// timeOfDayBonus nudges common meeting hours. This is a soft preference;
// hard morning/afternoon filtering happens during grid generation.
func timeOfDayBonus(hour int) float64 {
	switch {
	case hour >= 9 && hour <= 11:
		return morningBonus
	case hour >= 14 && hour <= 15:
		return afternoonBonus
	default:
		return 0
	}
}

// MarkRecommendations flags the single highest-scoring slot of each calendar
// day and applies the cosmetic boost when that slot sits below the display
// threshold. Selection uses pre-boost scores only, so the boost never
// changes a ranking that already happened.
func MarkRecommendations(slots []model.CandidateSlot) {
	best := make(map[time.Time]int)
	for i := range slots {
		day := slots[i].Day()
		j, ok := best[day]
		if !ok || slots[i].Score > slots[j].Score {
			best[day] = i
		}
	}
	for _, i := range best {
		slots[i].IsRecommended = true
		if slots[i].Score < recommendThreshold {
			slots[i].Score = min(maxScore, slots[i].Score+recommendBoost)
		}
	}
}
