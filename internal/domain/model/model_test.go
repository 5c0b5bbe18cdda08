package model_test

import (
	"testing"
	"time"

	model "github.com/slotwise/slotwise/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCandidateSlot(t *testing.T) {
	Convey("Given a candidate slot", t, func() {
		start := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
		slot := model.CandidateSlot{
			StartTime:             start,
			EndTime:               start.Add(time.Hour),
			AvailableParticipants: []string{"a@x.com"},
			TotalParticipants:     2,
			Score:                 0.874,
		}

		Convey("When asking for its day", func() {
			day := slot.Day()

			Convey("Then it should be midnight of the start date", func() {
				So(day.Year(), ShouldEqual, 2026)
				So(day.Month(), ShouldEqual, time.March)
				So(day.Day(), ShouldEqual, 10)
				So(day.Hour(), ShouldEqual, 0)
				So(day.Minute(), ShouldEqual, 0)
			})
		})

		Convey("When computing the availability ratio", func() {
			So(slot.AvailabilityRatio(), ShouldEqual, 0.5)

			Convey("And there are no participants to check", func() {
				empty := model.CandidateSlot{TotalParticipants: 0}
				So(empty.AvailabilityRatio(), ShouldEqual, 1.0)
			})
		})

		Convey("When converting to the display scale", func() {
			So(slot.DisplayScore(), ShouldEqual, 87.4)
		})
	})
}

func TestDaySelector(t *testing.T) {
	Convey("Given selector modes", t, func() {
		Convey("Then the wire names should match the extraction schema", func() {
			So(string(model.SelectFullRange), ShouldEqual, "fullRange")
			So(string(model.SelectFirstN), ShouldEqual, "firstN")
			So(string(model.SelectSpecificDays), ShouldEqual, "specificDays")
		})
	})
}
