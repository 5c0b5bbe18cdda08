// Package extract turns a free-text scheduling request into a structured
// ExtractionResult by way of the language model, with a bounded correction
// retry when the model's output is malformed and a clarification fallback
// for everything that cannot be repaired.
package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"

	"github.com/slotwise/slotwise/internal/adapters/llm"
	"github.com/slotwise/slotwise/internal/domain/model"
	"github.com/slotwise/slotwise/pkg/logger"
	"github.com/slotwise/slotwise/pkg/metrics"
)

// maxAttempts bounds the extraction state machine: the initial attempt plus
// at most one corrective retry. Never more.
const maxAttempts = 2

// Gateway drives parameter extraction against the language model.
type Gateway struct {
	client   *llm.Client
	validate *validator.Validate
	log      logger.Logger
}

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGateway creates a Gateway over the given client.
func NewGateway(client *llm.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:   client,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Get().Named("extract")
	}
	return g
}

// Extract runs the full extraction state machine for one user utterance.
// The result always comes back; failure paths surface as a clarification
// question inside it, never as an error the caller must branch on.
func (g *Gateway) Extract(ctx context.Context, text string, now time.Time) model.ExtractionResult {
	return g.extract(ctx, text, now, nil)
}

// ExtractWithNote re-runs extraction with an orchestrator-supplied
// correction note appended, used for the bounded anomaly corrections
// (weekend in range, collapsed week).
func (g *Gateway) ExtractWithNote(ctx context.Context, text string, now time.Time, note string) model.ExtractionResult {
	return g.extract(ctx, text, now, []string{note})
}

func (g *Gateway) extract(ctx context.Context, text string, now time.Time, notes []string) model.ExtractionResult {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		metrics.RecordExtractionAttempt()

		start := time.Now()
		raw, err := g.client.CompleteJSON(ctx, buildMessages(text, now, notes))
		metrics.RecordLLMLatency(float64(time.Since(start).Milliseconds()))

		if err != nil {
			// Transport failures (unreachable, timeout, cancellation) are
			// terminal; they are never retried here.
			g.log.Warn(ctx, "extraction transport failure", logger.Error(err))
			return g.clarify(questionUnreachable)
		}

		result, err := g.parse(raw)
		if err == nil {
			return result
		}

		if errors.Is(err, ErrMalformedOutput) && attempt == 0 {
			// NeedsCorrection: one strict-output retry, then give up.
			g.log.Info(ctx, "malformed extraction output, retrying with correction",
				logger.Int("attempt", attempt+1))
			metrics.RecordExtractionRetry()
			notes = append(notes, correctionNote)
			continue
		}

		g.log.Warn(ctx, "extraction failed", logger.Error(err), logger.Int("attempt", attempt+1))
		if errors.Is(err, ErrMissingDates) || errors.Is(err, ErrInvertedRange) {
			return g.clarify(questionBadDates)
		}
		return g.clarify(questionMalformed)
	}
	return g.clarify(questionMalformed)
}

func (g *Gateway) clarify(question string) model.ExtractionResult {
	metrics.RecordClarification()
	return model.ExtractionResult{
		NeedsClarification: &model.Clarification{Question: question},
	}
}

// Wire shapes mirroring the extraction JSON schema.

type wireSelector struct {
	Mode       string   `json:"mode"`
	N          *int     `json:"n"`
	DaysOfWeek []string `json:"daysOfWeek"`
}

// wireClarification accepts both `false` and `{"question": "..."}`.
type wireClarification struct {
	Needed   bool
	Question string
}

func (c *wireClarification) UnmarshalJSON(b []byte) error {
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		c.Needed = flag
		return nil
	}
	var obj struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Needed = true
	c.Question = obj.Question
	return nil
}

type wireResult struct {
	StartDate         string            `json:"startDate"`
	EndDate           string            `json:"endDate"`
	TimeOfDay         string            `json:"timeOfDay"`
	DurationMinutes   *int              `json:"durationMinutes"`
	ParticipantEmails []string          `json:"participantEmails"`
	DaysSelector      wireSelector      `json:"daysSelector"`
	NeedClarification wireClarification `json:"needClarification"`
}

// parse sanitizes and decodes one completion. Malformed output comes back
// as ErrMalformedOutput (retryable once); semantic problems come back as
// their own kinds (terminal).
func (g *Gateway) parse(raw string) (model.ExtractionResult, error) {
	cleaned := Sanitize(raw)
	if cleaned == "" {
		return model.ExtractionResult{}, ErrMalformedOutput
	}

	var wire wireResult
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return model.ExtractionResult{}, ErrMalformedOutput
	}

	if wire.NeedClarification.Needed {
		question := strings.TrimSpace(wire.NeedClarification.Question)
		if question == "" {
			question = questionMalformed
		}
		return model.ExtractionResult{
			NeedsClarification: &model.Clarification{Question: question},
		}, nil
	}

	start, okStart := parseDate(wire.StartDate)
	end, okEnd := parseDate(wire.EndDate)
	if !okStart || !okEnd {
		return model.ExtractionResult{}, ErrMissingDates
	}
	if end.Before(start) {
		return model.ExtractionResult{}, ErrInvertedRange
	}

	result := model.ExtractionResult{
		StartDate: start,
		EndDate:   end,
		TimeOfDay: normalizeTimeOfDay(wire.TimeOfDay),
		Selector:  normalizeSelector(wire.DaysSelector),
	}
	if wire.DurationMinutes != nil && *wire.DurationMinutes > 0 {
		result.DurationMinutes = *wire.DurationMinutes
	}
	for _, email := range wire.ParticipantEmails {
		email = strings.TrimSpace(email)
		if g.validate.Var(email, "required,email") == nil {
			result.ParticipantEmails = append(result.ParticipantEmails, email)
		}
	}
	return result, nil
}

// parseDate accepts the date-only schema format first, then RFC3339 for
// models that answer with full timestamps anyway.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func normalizeTimeOfDay(s string) model.TimeOfDay {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(model.TimeOfDayMorning):
		return model.TimeOfDayMorning
	case string(model.TimeOfDayAfternoon):
		return model.TimeOfDayAfternoon
	default:
		return model.TimeOfDayAll
	}
}

// normalizeSelector downgrades anything incomplete to fullRange instead of
// failing; the selector is advisory narrowing, not a hard requirement.
func normalizeSelector(w wireSelector) model.DaySelector {
	sel := model.DaySelector{Mode: model.SelectFullRange}
	switch w.Mode {
	case string(model.SelectFirstN):
		if w.N != nil && *w.N > 0 {
			sel.Mode = model.SelectFirstN
			sel.N = *w.N
		}
	case string(model.SelectSpecificDays):
		if len(w.DaysOfWeek) > 0 {
			sel.Mode = model.SelectSpecificDays
			sel.DaysOfWeek = w.DaysOfWeek
		}
	}
	return sel
}
