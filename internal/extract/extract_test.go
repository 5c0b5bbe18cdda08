package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slotwise/slotwise/internal/adapters/llm"
	"github.com/slotwise/slotwise/internal/domain/model"
	extract "github.com/slotwise/slotwise/internal/extract"
	"github.com/slotwise/slotwise/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const validReply = `{
  "startDate": "2026-03-02",
  "endDate": "2026-03-06",
  "timeOfDay": "morning",
  "durationMinutes": 45,
  "participantEmails": ["ana@example.com", "not-an-email", "bo@example.com"],
  "daysSelector": {"mode": "firstN", "n": 3, "daysOfWeek": null},
  "needClarification": false
}`

func newGateway(stub *llm.StubTransport) *extract.Gateway {
	return extract.NewGateway(llm.NewClient(stub))
}

func TestExtract(t *testing.T) {
	logger.Init()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	Convey("Given a model that answers with a clean extraction", t, func() {
		stub := llm.NewStubTransport(validReply)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet next week", now)

			Convey("Then the structured parameters should come through", func() {
				So(res.NeedsClarification, ShouldBeNil)
				So(res.StartDate.Format("2006-01-02"), ShouldEqual, "2026-03-02")
				So(res.EndDate.Format("2006-01-02"), ShouldEqual, "2026-03-06")
				So(res.TimeOfDay, ShouldEqual, model.TimeOfDayMorning)
				So(res.DurationMinutes, ShouldEqual, 45)
				So(res.Selector.Mode, ShouldEqual, model.SelectFirstN)
				So(res.Selector.N, ShouldEqual, 3)
			})

			Convey("Then invalid email addresses should be filtered out", func() {
				So(res.ParticipantEmails, ShouldResemble, []string{"ana@example.com", "bo@example.com"})
			})

			Convey("Then exactly one call should have been made", func() {
				So(stub.Calls(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a model whose first reply is malformed", t, func() {
		stub := llm.NewStubTransport("Sure, scheduling is fun!", validReply)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet next week", now)

			Convey("Then the corrective retry should recover the result", func() {
				So(res.NeedsClarification, ShouldBeNil)
				So(res.StartDate.Format("2006-01-02"), ShouldEqual, "2026-03-02")
			})

			Convey("Then exactly two calls should have been made", func() {
				calls := stub.Calls()
				So(calls, ShouldHaveLength, 2)

				Convey("And the retry should carry the correction note", func() {
					last := calls[1].Messages[len(calls[1].Messages)-1]
					So(last.Role, ShouldEqual, "system")
					So(last.Content, ShouldContainSubstring, "not valid JSON")
				})
			})
		})
	})

	Convey("Given a model that never produces valid JSON", t, func() {
		stub := llm.NewStubTransport("nope", "still nope")
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet next week", now)

			Convey("Then the result should be a clarification, not an error", func() {
				So(res.NeedsClarification, ShouldNotBeNil)
				So(res.NeedsClarification.Question, ShouldNotBeEmpty)
			})

			Convey("Then there should be no third attempt", func() {
				So(stub.Calls(), ShouldHaveLength, 2)
			})
		})
	})

	Convey("Given an unreachable model endpoint", t, func() {
		stub := llm.NewStubTransport(validReply)
		stub.FailWith(errors.New("dial tcp: connection refused"))
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet next week", now)

			Convey("Then the failure should surface as a clarification", func() {
				So(res.NeedsClarification, ShouldNotBeNil)
			})

			Convey("Then transport failures should never be retried", func() {
				So(stub.Calls(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a model that asks for clarification itself", t, func() {
		stub := llm.NewStubTransport(`{"needClarification": {"question": "Which week did you mean?"}}`)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "sometime soonish", now)

			Convey("Then the model's question should pass through verbatim", func() {
				So(res.NeedsClarification, ShouldNotBeNil)
				So(res.NeedsClarification.Question, ShouldEqual, "Which week did you mean?")
			})
		})
	})

	Convey("Given a reply with an inverted date range", t, func() {
		stub := llm.NewStubTransport(`{"startDate": "2026-03-06", "endDate": "2026-03-02", "needClarification": false}`)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet", now)

			Convey("Then the result should ask about dates without retrying", func() {
				So(res.NeedsClarification, ShouldNotBeNil)
				So(res.NeedsClarification.Question, ShouldContainSubstring, "date")
				So(stub.Calls(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given a reply missing both dates", t, func() {
		stub := llm.NewStubTransport(`{"timeOfDay": "morning", "needClarification": false}`)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet", now)

			Convey("Then the result should be a clarification", func() {
				So(res.NeedsClarification, ShouldNotBeNil)
				So(stub.Calls(), ShouldHaveLength, 1)
			})
		})
	})

	Convey("Given an incomplete selector", t, func() {
		stub := llm.NewStubTransport(`{
  "startDate": "2026-03-02",
  "endDate": "2026-03-06",
  "daysSelector": {"mode": "firstN", "n": null},
  "needClarification": false
}`)
		g := newGateway(stub)

		Convey("When extracting", func() {
			res := g.Extract(context.Background(), "meet", now)

			Convey("Then the selector should downgrade to the full range", func() {
				So(res.NeedsClarification, ShouldBeNil)
				So(res.Selector.Mode, ShouldEqual, model.SelectFullRange)
			})
		})
	})

	Convey("Given an orchestrator correction note", t, func() {
		stub := llm.NewStubTransport(validReply)
		g := newGateway(stub)

		Convey("When extracting with the note", func() {
			g.ExtractWithNote(context.Background(), "meet next week", now, "The range includes a weekend; restrict it to business days.")

			Convey("Then the note should ride along as a system message", func() {
				calls := stub.Calls()
				So(calls, ShouldHaveLength, 1)
				last := calls[0].Messages[len(calls[0].Messages)-1]
				So(last.Role, ShouldEqual, "system")
				So(last.Content, ShouldContainSubstring, "weekend")
			})
		})
	})
}
