// Package service provides the scheduling orchestrator: the one component
// with retry and branching control flow. It sequences extraction, anomaly
// correction, day resolution, slot generation, scoring, distribution, and
// formatting, and guarantees that every failure path resolves to a
// response the user can read.
package service

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/slotwise/internal/domain/availability"
	"github.com/slotwise/slotwise/internal/domain/calendar"
	"github.com/slotwise/slotwise/internal/domain/dayselect"
	"github.com/slotwise/slotwise/internal/domain/distribute"
	"github.com/slotwise/slotwise/internal/domain/model"
	"github.com/slotwise/slotwise/internal/domain/scoring"
	"github.com/slotwise/slotwise/internal/domain/slotgrid"
	"github.com/slotwise/slotwise/pkg/logger"
	"github.com/slotwise/slotwise/pkg/metrics"
)

const (
	defaultMaxResults = 10

	// Fixed fallback starts injected when generation yields nothing.
	fallbackMorningHour   = 10
	fallbackAfternoonHour = 14
)

// Extractor produces structured scheduling parameters from free text.
type Extractor interface {
	Extract(ctx context.Context, text string, now time.Time) model.ExtractionResult
	ExtractWithNote(ctx context.Context, text string, now time.Time, note string) model.ExtractionResult
}

// Renderer turns a ranked slot list into user-facing text.
type Renderer interface {
	Format(ctx context.Context, slots []model.CandidateSlot) string
}

// Response is the orchestrator's answer to one scheduling request. Every
// path through the pipeline produces one; Message is always set.
type Response struct {
	RequestID          string
	Message            string
	NeedsClarification bool
	Slots              []model.CandidateSlot
}

// Service orchestrates the scheduling pipeline.
type Service struct {
	extractor  Extractor
	renderer   Renderer
	checker    availability.Checker
	grid       *slotgrid.Generator
	maxResults int
	now        func() time.Time
	started    time.Time
	log        logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithChecker sets the availability checker queried during generation.
func WithChecker(c availability.Checker) Option {
	return func(s *Service) {
		if c != nil {
			s.checker = c
		}
	}
}

// WithGenerator sets the slot grid generator.
func WithGenerator(g *slotgrid.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.grid = g
		}
	}
}

// WithMaxResults caps the number of slots returned per request.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithClock sets the time source, used by tests for a fixed "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the orchestrator over an extractor and a renderer.
func NewService(extractor Extractor, renderer Renderer, opts ...Option) *Service {
	s := &Service{
		extractor:  extractor,
		renderer:   renderer,
		checker:    availability.NewCachedChecker(availability.NewSimulator()),
		grid:       slotgrid.NewGenerator(),
		maxResults: defaultMaxResults,
		now:        time.Now,
		started:    time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("service")
	}
	return s
}

// Schedule processes one scheduling request end to end. It never returns
// an error: transport failures, malformed extractions, and even panics in
// the pipeline all resolve to a Response with a readable Message.
func (s *Service) Schedule(ctx context.Context, text string) (resp Response) {
	requestID := uuid.NewString()
	resp.RequestID = requestID

	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "scheduling pipeline panic",
				logger.String("request_id", requestID), logger.Any("panic", r))
			metrics.RecordPipelinePanic()
			resp = Response{
				RequestID:          requestID,
				Message:            msgGenericFailure,
				NeedsClarification: true,
			}
		}
	}()

	metrics.RecordScheduleRequest()
	now := s.now()
	s.log.Info(ctx, "scheduling request received", logger.String("request_id", requestID))

	res := s.extractor.Extract(ctx, text, now)
	if res.NeedsClarification != nil {
		return s.clarify(ctx, requestID, res.NeedsClarification.Question)
	}
	if len(res.ParticipantEmails) == 0 {
		return s.clarify(ctx, requestID, msgNoParticipants)
	}

	res, clar := s.correctAnomalies(ctx, text, now, res)
	if clar != "" {
		return s.clarify(ctx, requestID, clar)
	}

	days := calendar.Days(res.StartDate, res.EndDate)
	selected, err := dayselect.Resolve(days, res.Selector)
	if err != nil {
		s.log.Info(ctx, "day selector matched nothing",
			logger.String("request_id", requestID), logger.Error(err))
		return s.clarify(ctx, requestID, msgNoMatchingDays)
	}

	slots := s.generate(selected, res)
	if len(slots) == 0 {
		s.log.Info(ctx, "no slots generated, injecting fallback",
			logger.String("request_id", requestID))
		metrics.RecordFallbackInjected()
		slots = s.fallbackSlots(res)
	}

	scorer := scoring.NewScorer(scoring.WithSeed(seedFromID(requestID)))
	scorer.ScoreSlots(slots)
	scoring.MarkRecommendations(slots)
	ranked := distribute.Distribute(slots, s.maxResults)
	metrics.RecordSlotsGenerated(len(slots))

	s.log.Info(ctx, "scheduling request resolved",
		logger.String("request_id", requestID),
		logger.Int("generated", len(slots)),
		logger.Int("returned", len(ranked)))

	return Response{
		RequestID: requestID,
		Message:   s.renderer.Format(ctx, ranked),
		Slots:     ranked,
	}
}

// GetStats reports a coarse operational snapshot for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"uptime_seconds": time.Since(s.started).Seconds(),
		"max_results":    s.maxResults,
	}
	if c, ok := s.checker.(*availability.CachedChecker); ok {
		stats["availability_cache_size"] = c.Size()
	}
	return stats
}

// correctAnomalies layers the bounded orchestrator corrections on top of
// extraction: a range touching a weekend, and a range collapsed to one day
// while the text speaks of a week. Each anomaly gets one corrective
// re-extraction; if it persists, the user is asked instead.
func (s *Service) correctAnomalies(ctx context.Context, text string, now time.Time, res model.ExtractionResult) (model.ExtractionResult, string) {
	if weekendEdge(res) {
		s.log.Info(ctx, "extracted range touches a weekend, correcting")
		metrics.RecordAnomalyCorrection("weekend")
		res = s.extractor.ExtractWithNote(ctx, text, now, noteWeekend)
		if res.NeedsClarification != nil {
			return res, res.NeedsClarification.Question
		}
		if weekendEdge(res) {
			return res, msgWeekendDates
		}
	}

	if collapsedWeek(text, res) {
		s.log.Info(ctx, "week request collapsed to a single day, correcting")
		metrics.RecordAnomalyCorrection("collapsed_week")
		res = s.extractor.ExtractWithNote(ctx, text, now, noteCollapsedWeek)
		if res.NeedsClarification != nil {
			return res, res.NeedsClarification.Question
		}
		if collapsedWeek(text, res) {
			return res, msgCollapsedWeek
		}
	}

	if len(res.ParticipantEmails) == 0 {
		return res, msgNoParticipants
	}
	return res, ""
}

// generate fans slot generation out across the selected days. Day-level
// generation shares no mutable state, so each day runs on its own
// goroutine and lands in its own slot of the result.
func (s *Service) generate(days []time.Time, res model.ExtractionResult) []model.CandidateSlot {
	perDay := make([][]model.CandidateSlot, len(days))

	var wg sync.WaitGroup
	for i, day := range days {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := slotgrid.Request{
				Day:             day,
				DurationMinutes: res.DurationMinutes,
				Participants:    res.ParticipantEmails,
				TimeOfDay:       res.TimeOfDay,
			}
			if sameDay(day, res.StartDate) && hasClock(res.StartDate) {
				req.ClipStart = res.StartDate
			}
			if sameDay(day, res.EndDate) && hasClock(res.EndDate) {
				req.ClipEnd = res.EndDate
			}
			perDay[i] = s.grid.Generate(req, s.checker)
		}()
	}
	wg.Wait()

	var all []model.CandidateSlot
	for _, ds := range perDay {
		all = append(all, ds...)
	}
	return all
}

// fallbackSlots builds the two fixed suggestions (10:00 and 14:00 on the
// first business day on or after the requested start) shown when the grid
// produced nothing, so the user never gets an empty answer silently.
func (s *Service) fallbackSlots(res model.ExtractionResult) []model.CandidateSlot {
	y, m, d := calendar.NextBusinessDay(res.StartDate).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, res.StartDate.Location())

	duration := time.Duration(res.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}

	mk := func(hour int) model.CandidateSlot {
		start := day.Add(time.Duration(hour) * time.Hour)
		return model.CandidateSlot{
			StartTime:             start,
			EndTime:               start.Add(duration),
			AvailableParticipants: append([]string(nil), res.ParticipantEmails...),
			TotalParticipants:     len(res.ParticipantEmails),
		}
	}
	return []model.CandidateSlot{mk(fallbackMorningHour), mk(fallbackAfternoonHour)}
}

func (s *Service) clarify(ctx context.Context, requestID, question string) Response {
	s.log.Info(ctx, "asking user for clarification", logger.String("request_id", requestID))
	return Response{
		RequestID:          requestID,
		Message:            question,
		NeedsClarification: true,
	}
}

// weekendEdge reports whether the extracted range starts or ends on a
// weekend, the signature of the model ignoring the business-day rule.
func weekendEdge(res model.ExtractionResult) bool {
	return calendar.IsWeekend(res.StartDate) || calendar.IsWeekend(res.EndDate)
}

// collapsedWeek reports whether a request that speaks of a week came back
// as a single-day range.
func collapsedWeek(text string, res model.ExtractionResult) bool {
	return sameDay(res.StartDate, res.EndDate) &&
		strings.Contains(strings.ToLower(text), "week")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func hasClock(t time.Time) bool {
	return t.Hour() != 0 || t.Minute() != 0
}

// seedFromID derives the per-request jitter seed from the request id, so
// scoring is reproducible for a request yet varies across requests.
func seedFromID(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}
