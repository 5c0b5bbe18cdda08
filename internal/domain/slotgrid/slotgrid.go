// Package slotgrid produces the dense grid of candidate meeting slots for a
// single business day: fixed-length windows at a fixed stride inside the
// working hours, each carrying simulated per-participant availability.
package slotgrid

import (
	"time"

	"github.com/slotwise/slotwise/internal/domain/availability"
	"github.com/slotwise/slotwise/internal/domain/model"
)

// Default working window and grid stride.
const (
	defaultWorkdayStartMin = 9 * 60  // 09:00
	defaultWorkdayEndMin   = 17 * 60 // 17:00
	defaultStepMinutes     = 30
	defaultDurationMinutes = 60
)

// Generator steps through a day's working window building candidate slots.
type Generator struct {
	workdayStart int // minutes from midnight
	workdayEnd   int // minutes from midnight
	step         int // minutes between candidate starts
	duration     int // default slot length in minutes
}

// Request describes one day's generation inputs.
type Request struct {
	// Day is the target calendar day, at midnight.
	Day time.Time

	// DurationMinutes overrides the generator default when positive.
	DurationMinutes int

	// Participants are queried for availability at each candidate start.
	Participants []string

	// TimeOfDay applies the hard morning/afternoon filter: the workday is
	// split at its midpoint and slots on the wrong side are excluded.
	TimeOfDay model.TimeOfDay

	// ClipStart and ClipEnd narrow the working window on boundary days of a
	// multi-day range. Zero values leave the window untouched.
	ClipStart time.Time
	ClipEnd   time.Time
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithWorkday sets the working window as minutes from midnight.
func WithWorkday(startMin, endMin int) Option {
	return func(g *Generator) {
		if startMin >= 0 && endMin > startMin {
			g.workdayStart = startMin
			g.workdayEnd = endMin
		}
	}
}

// WithStep sets the stride between candidate start times.
func WithStep(minutes int) Option {
	return func(g *Generator) {
		if minutes > 0 {
			g.step = minutes
		}
	}
}

// WithDefaultDuration sets the slot length used when a request has none.
func WithDefaultDuration(minutes int) Option {
	return func(g *Generator) {
		if minutes > 0 {
			g.duration = minutes
		}
	}
}

// NewGenerator creates a Generator with a 09:00-17:00 window, 30-minute
// stride, and 60-minute default duration.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		workdayStart: defaultWorkdayStartMin,
		workdayEnd:   defaultWorkdayEndMin,
		step:         defaultStepMinutes,
		duration:     defaultDurationMinutes,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Midpoint returns the workday midpoint on the given day, the split line for
// the morning/afternoon hard filter.
func (g *Generator) Midpoint(day time.Time) time.Time {
	return day.Add(time.Duration(g.workdayStart+g.workdayEnd) * time.Minute / 2)
}

// Generate builds every candidate slot for the requested day. A window too
// short for a single slot of the requested duration yields an empty result,
// not an error. Scores are left at zero for the scoring pass.
func (g *Generator) Generate(req Request, checker availability.Checker) []model.CandidateSlot {
	duration := time.Duration(g.duration) * time.Minute
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}

	windowStart := req.Day.Add(time.Duration(g.workdayStart) * time.Minute)
	windowEnd := req.Day.Add(time.Duration(g.workdayEnd) * time.Minute)
	if !req.ClipStart.IsZero() && req.ClipStart.After(windowStart) {
		windowStart = req.ClipStart
	}
	if !req.ClipEnd.IsZero() && req.ClipEnd.Before(windowEnd) {
		windowEnd = req.ClipEnd
	}

	midpoint := g.Midpoint(req.Day)
	step := time.Duration(g.step) * time.Minute

	var slots []model.CandidateSlot
	for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(step) {
		switch req.TimeOfDay {
		case model.TimeOfDayMorning:
			if !start.Before(midpoint) {
				continue
			}
		case model.TimeOfDayAfternoon:
			if start.Before(midpoint) {
				continue
			}
		}

		subset, total := availability.AvailableSubset(checker, req.Participants, start)
		slots = append(slots, model.CandidateSlot{
			StartTime:             start,
			EndTime:               start.Add(duration),
			AvailableParticipants: subset,
			TotalParticipants:     total,
		})
	}
	return slots
}
