package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/slotwise/slotwise/internal/adapters/http/api"
	service "github.com/slotwise/slotwise/internal/app"
	"github.com/slotwise/slotwise/internal/domain/model"
	"github.com/slotwise/slotwise/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type stubScheduler struct {
	resp service.Response
	text string
}

func (s *stubScheduler) Schedule(_ context.Context, text string) service.Response {
	s.text = text
	return s.resp
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"uptime_seconds": 1.5, "max_results": 10}
}

func newTestServer(sched api.Dependencies) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(sched, stubStats{}).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func TestScheduleEndpoint(t *testing.T) {
	logger.Init()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	Convey("Given a server over a scheduler with results", t, func() {
		sched := &stubScheduler{resp: service.Response{
			RequestID: "req-1",
			Message:   "two options found",
			Slots: []model.CandidateSlot{{
				StartTime:             start,
				EndTime:               start.Add(time.Hour),
				AvailableParticipants: []string{"ana@example.com"},
				TotalParticipants:     2,
				Score:                 0.97,
				IsRecommended:         true,
			}},
		}}
		ts := newTestServer(sched)
		defer ts.Close()

		Convey("When posting a scheduling request", func() {
			resp, err := http.Post(ts.URL+"/schedule", "application/json",
				strings.NewReader(`{"text": "meet next week with ana@example.com"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the response should carry the ranked slots", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeEmpty)

				var body struct {
					RequestID          string `json:"request_id"`
					Message            string `json:"message"`
					NeedsClarification bool   `json:"needs_clarification"`
					Slots              []struct {
						Start       string  `json:"start"`
						Score       float64 `json:"score"`
						Available   int     `json:"available"`
						Total       int     `json:"total"`
						Recommended bool    `json:"recommended"`
					} `json:"slots"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.RequestID, ShouldEqual, "req-1")
				So(body.Message, ShouldEqual, "two options found")
				So(body.NeedsClarification, ShouldBeFalse)
				So(body.Slots, ShouldHaveLength, 1)
				So(body.Slots[0].Start, ShouldEqual, "2026-03-02T09:00:00Z")
				So(body.Slots[0].Score, ShouldEqual, 97.0)
				So(body.Slots[0].Recommended, ShouldBeTrue)
			})

			Convey("Then the scheduler should receive the raw text", func() {
				So(sched.text, ShouldEqual, "meet next week with ana@example.com")
			})
		})

		Convey("When posting malformed JSON", func() {
			resp, err := http.Post(ts.URL+"/schedule", "application/json",
				strings.NewReader(`{"text": `))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the request should be rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

				var body struct {
					Code string `json:"code"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.Code, ShouldEqual, "bad_request")
			})
		})

		Convey("When posting an empty utterance", func() {
			resp, err := http.Post(ts.URL+"/schedule", "application/json",
				strings.NewReader(`{"text": "   "}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the request should be rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			resp, err := http.Get(ts.URL + "/schedule")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the route should not match", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})

	Convey("Given a scheduler that asks for clarification", t, func() {
		sched := &stubScheduler{resp: service.Response{
			RequestID:          "req-2",
			Message:            "Which week did you mean?",
			NeedsClarification: true,
		}}
		ts := newTestServer(sched)
		defer ts.Close()

		Convey("When posting a vague request", func() {
			resp, err := http.Post(ts.URL+"/schedule", "application/json",
				strings.NewReader(`{"text": "sometime"}`))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the clarification should come back as a normal answer", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body struct {
					Message            string `json:"message"`
					NeedsClarification bool   `json:"needs_clarification"`
				}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body.NeedsClarification, ShouldBeTrue)
				So(body.Message, ShouldEqual, "Which week did you mean?")
			})
		})
	})
}

func TestStatsEndpoint(t *testing.T) {
	logger.Init()

	Convey("Given a running server", t, func() {
		ts := newTestServer(&stubScheduler{})
		defer ts.Close()

		Convey("When fetching stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the snapshot should decode", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				var body map[string]interface{}
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
				So(body, ShouldContainKey, "max_results")
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	logger.Init()

	Convey("Given a running server", t, func() {
		ts := newTestServer(&stubScheduler{})
		defer ts.Close()

		Convey("When scraping the health endpoint", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then Prometheus metrics should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}
