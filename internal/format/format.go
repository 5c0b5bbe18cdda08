// Package format renders a ranked slot list as user-facing text. The
// primary path hands a compact pipe-delimited table to the language model
// for prose rendering; a deterministic local renderer covers model
// failures so the user always gets text back.
package format

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/slotwise/slotwise/internal/adapters/llm"
	"github.com/slotwise/slotwise/internal/domain/model"
	"github.com/slotwise/slotwise/pkg/logger"
	"github.com/slotwise/slotwise/pkg/metrics"
)

const (
	slotTimeLayout = "2006-01-02 15:04"
	dayLayout      = "Monday, January 2"

	formatSystemPrompt = `You present meeting slot suggestions to a user.
The user message contains one slot per line as: start|end|score|available/total|emails.
Group the slots by day, keep them in the given order, show times and scores,
and mark the recommended slot of each day (the one flagged with a leading *)
with a star. Be brief and friendly. Plain text only.`
)

// Formatter turns scored slots into presentation text.
type Formatter struct {
	client *llm.Client
	log    logger.Logger
}

// Option applies a configuration option to the Formatter.
type Option func(*Formatter)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(f *Formatter) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFormatter creates a Formatter. A nil client skips the model entirely
// and always renders locally.
func NewFormatter(client *llm.Client, opts ...Option) *Formatter {
	f := &Formatter{client: client}
	for _, opt := range opts {
		opt(f)
	}
	if f.log == nil {
		f.log = logger.Get().Named("format")
	}
	return f
}

// Format renders slots as prose via the model, falling back to the local
// renderer when the model is unavailable or answers with nothing usable.
func (f *Formatter) Format(ctx context.Context, slots []model.CandidateSlot) string {
	if len(slots) == 0 {
		return "I couldn't find any open slots for that request."
	}

	if f.client != nil {
		msgs := []llm.Message{
			{Role: "system", Content: formatSystemPrompt},
			{Role: "user", Content: Lines(slots)},
		}
		out, err := f.client.Complete(ctx, msgs)
		if err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
		if err != nil {
			f.log.Warn(ctx, "prose formatting failed, using local renderer", logger.Error(err))
		}
		metrics.RecordFormatterFallback()
	}

	return Fallback(slots)
}

// Lines renders one pipe-delimited line per slot:
// start|end|score|available/total|emails. Recommended slots carry a
// leading "*" on the start column so the marker survives the model hop.
func Lines(slots []model.CandidateSlot) string {
	var b strings.Builder
	for i, s := range slots {
		if i > 0 {
			b.WriteByte('\n')
		}
		if s.IsRecommended {
			b.WriteByte('*')
		}
		fmt.Fprintf(&b, "%s|%s|%.1f|%d/%d|%s",
			s.StartTime.Format(slotTimeLayout),
			s.EndTime.Format(slotTimeLayout),
			s.DisplayScore(),
			len(s.AvailableParticipants),
			s.TotalParticipants,
			strings.Join(s.AvailableParticipants, ","),
		)
	}
	return b.String()
}

// Fallback is the deterministic renderer: slots grouped under a day
// heading, recommended slots starred.
func Fallback(slots []model.CandidateSlot) string {
	var b strings.Builder
	b.WriteString("Here are the best times I found:\n")

	var currentDay time.Time
	for _, s := range slots {
		day := s.Day()
		if !day.Equal(currentDay) {
			currentDay = day
			fmt.Fprintf(&b, "\n%s\n", day.Format(dayLayout))
		}
		marker := " "
		if s.IsRecommended {
			marker = "★"
		}
		fmt.Fprintf(&b, "  %s %s - %s  (score %.1f, %d/%d available)\n",
			marker,
			s.StartTime.Format("15:04"),
			s.EndTime.Format("15:04"),
			s.DisplayScore(),
			len(s.AvailableParticipants),
			s.TotalParticipants,
		)
	}
	return strings.TrimRight(b.String(), "\n")
}
