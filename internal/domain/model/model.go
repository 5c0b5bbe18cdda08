// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// TimeOfDay narrows the part of the workday the user asked for.
type TimeOfDay string

// Recognized time-of-day values. Anything else is treated as All.
const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayAll       TimeOfDay = "all"
)

// SelectorMode identifies how a DaySelector narrows a business-day range.
type SelectorMode string

// Selector modes mirror the extraction wire schema.
const (
	SelectFullRange    SelectorMode = "fullRange"
	SelectFirstN       SelectorMode = "firstN"
	SelectSpecificDays SelectorMode = "specificDays"
)

// DaySelector narrows an enumerated business-day range.
// Missing or invalid companion fields (N, DaysOfWeek) downgrade the
// selector to fullRange rather than failing.
type DaySelector struct {
	Mode       SelectorMode
	N          int      // required and positive when Mode == SelectFirstN
	DaysOfWeek []string // three-letter abbreviations, required when Mode == SelectSpecificDays
}

// Clarification is a terminal pipeline state: a follow-up question for the
// user instead of slots.
type Clarification struct {
	Question string
}

// ExtractionResult is the structured form of a scheduling request.
// When NeedsClarification is set every other field is meaningless and must
// not be consumed downstream.
type ExtractionResult struct {
	StartDate         time.Time
	EndDate           time.Time
	TimeOfDay         TimeOfDay
	DurationMinutes   int // 0 means "not specified"; caller applies its default
	ParticipantEmails []string
	Selector          DaySelector

	NeedsClarification *Clarification
}

// CandidateSlot is a candidate meeting window with simulated availability.
// Score lives on a [0,1] scale; DisplayScore exposes the 0-100 scale used
// for ranking thresholds and user-facing output.
type CandidateSlot struct {
	StartTime             time.Time
	EndTime               time.Time
	AvailableParticipants []string
	TotalParticipants     int
	Score                 float64
	IsRecommended         bool
}

// Day returns the slot's calendar day truncated to midnight, used for
// per-day grouping in recommendation and distribution passes.
func (s CandidateSlot) Day() time.Time {
	y, m, d := s.StartTime.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.StartTime.Location())
}

// DisplayScore converts the internal [0,1] score to the 0-100 display scale,
// rounded to one decimal.
func (s CandidateSlot) DisplayScore() float64 {
	return math.Round(s.Score*1000) / 10
}

// AvailabilityRatio is the fraction of participants available in this slot.
// A slot with no participants to check counts as fully available.
func (s CandidateSlot) AvailabilityRatio() float64 {
	if s.TotalParticipants == 0 {
		return 1.0
	}
	return float64(len(s.AvailableParticipants)) / float64(s.TotalParticipants)
}
