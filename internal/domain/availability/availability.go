// Package availability decides whether a participant is free at a given
// slot start. The Simulator is a deterministic stand-in for a real calendar
// free/busy query: any production deployment replaces the Checker with an
// adapter over the actual calendar source. Downstream code only depends on
// the Checker contract.
package availability

import (
	"hash/fnv"
	"strconv"
	"strings"
	"time"
)

// Checker reports per-participant availability at a slot start time.
type Checker interface {
	IsAvailable(email string, slotStart time.Time) bool
}

// Simulator implements Checker as a pure function of (email, minute).
// A stable FNV-1a hash keeps repeated calls for the same inputs identical
// within and across process runs; the rate is calibrated so roughly 80% of
// (email, time) pairs come back available.
type Simulator struct {
	rate int // percentage of pairs reported available, 0-100
}

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithAvailabilityRate overrides the percentage of pairs reported available.
func WithAvailabilityRate(rate int) Option {
	return func(s *Simulator) {
		if rate >= 0 && rate <= 100 {
			s.rate = rate
		}
	}
}

// NewSimulator creates a Simulator with the default 80% availability rate.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{rate: 80}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsAvailable reports whether email is free at slotStart. The timestamp is
// truncated to the minute so every query within a slot's opening minute
// agrees.
func (s *Simulator) IsAvailable(email string, slotStart time.Time) bool {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(email))))
	_, _ = h.Write([]byte{'|'})
	_, _ = h.Write([]byte(strconv.FormatInt(slotStart.Truncate(time.Minute).Unix(), 10)))
	return h.Sum64()%100 < uint64(s.rate)
}

// AvailableSubset queries the checker for every participant and returns the
// available ones. The second return is the total queried, which callers feed
// into scoring.
func AvailableSubset(c Checker, participants []string, slotStart time.Time) ([]string, int) {
	available := make([]string, 0, len(participants))
	for _, p := range participants {
		if c.IsAvailable(p, slotStart) {
			available = append(available, p)
		}
	}
	return available, len(participants)
}
