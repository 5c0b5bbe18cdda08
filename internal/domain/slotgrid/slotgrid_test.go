package slotgrid_test

import (
	"testing"
	"time"

	availability "github.com/slotwise/slotwise/internal/domain/availability"
	model "github.com/slotwise/slotwise/internal/domain/model"
	slotgrid "github.com/slotwise/slotwise/internal/domain/slotgrid"
	. "github.com/smartystreets/goconvey/convey"
)

// alwaysFree reports every participant available, keeping grid shape tests
// independent of the hash simulator.
type alwaysFree struct{}

func (alwaysFree) IsAvailable(string, time.Time) bool { return true }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	Convey("Given the default 09:00-17:00 window with a 30-minute stride", t, func() {
		gen := slotgrid.NewGenerator()
		target := day(2026, 3, 3)

		Convey("When generating 60-minute slots", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:             target,
				DurationMinutes: 60,
				Participants:    []string{"a@x.com", "b@x.com"},
			}, alwaysFree{})

			Convey("Then exactly 15 slots should be produced", func() {
				// 09:00 through 16:00; a 16:30 start would end past 17:00.
				So(len(slots), ShouldEqual, 15)
				So(slots[0].StartTime.Hour(), ShouldEqual, 9)
				So(slots[0].StartTime.Minute(), ShouldEqual, 0)
				last := slots[len(slots)-1]
				So(last.StartTime.Hour(), ShouldEqual, 16)
				So(last.StartTime.Minute(), ShouldEqual, 0)
			})

			Convey("And every slot should span exactly the duration", func() {
				for _, s := range slots {
					So(s.EndTime.Sub(s.StartTime), ShouldEqual, time.Hour)
					So(s.TotalParticipants, ShouldEqual, 2)
					So(len(s.AvailableParticipants), ShouldEqual, 2)
				}
			})
		})

		Convey("When the requested time of day is morning", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:       target,
				TimeOfDay: model.TimeOfDayMorning,
			}, alwaysFree{})

			Convey("Then only starts before the 13:00 midpoint should survive", func() {
				So(len(slots), ShouldBeGreaterThan, 0)
				midpoint := gen.Midpoint(target)
				So(midpoint.Hour(), ShouldEqual, 13)
				for _, s := range slots {
					So(s.StartTime.Before(midpoint), ShouldBeTrue)
				}
			})
		})

		Convey("When the requested time of day is afternoon", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:       target,
				TimeOfDay: model.TimeOfDayAfternoon,
			}, alwaysFree{})

			Convey("Then only starts at or after the midpoint should survive", func() {
				So(len(slots), ShouldBeGreaterThan, 0)
				midpoint := gen.Midpoint(target)
				for _, s := range slots {
					So(s.StartTime.Before(midpoint), ShouldBeFalse)
				}
			})
		})

		Convey("When boundary clips narrow the window", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:             target,
				DurationMinutes: 60,
				ClipStart:       target.Add(14 * time.Hour),
				ClipEnd:         target.Add(16 * time.Hour),
			}, alwaysFree{})

			Convey("Then only slots inside the clipped window should appear", func() {
				So(len(slots), ShouldEqual, 3) // 14:00, 14:30, 15:00
				So(slots[0].StartTime.Hour(), ShouldEqual, 14)
				So(slots[2].StartTime.Hour(), ShouldEqual, 15)
			})
		})

		Convey("When the window is too short for one slot", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:             target,
				DurationMinutes: 60,
				ClipStart:       target.Add(16*time.Hour + 30*time.Minute),
			}, alwaysFree{})

			Convey("Then the day should contribute zero slots without error", func() {
				So(len(slots), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a custom window and stride", t, func() {
		gen := slotgrid.NewGenerator(
			slotgrid.WithWorkday(8*60, 12*60),
			slotgrid.WithStep(60),
			slotgrid.WithDefaultDuration(30),
		)

		Convey("When generating with the default duration", func() {
			slots := gen.Generate(slotgrid.Request{Day: day(2026, 3, 4)}, alwaysFree{})

			Convey("Then the stride and duration should follow the options", func() {
				So(len(slots), ShouldEqual, 4) // 08:00 09:00 10:00 11:00
				So(slots[0].EndTime.Sub(slots[0].StartTime), ShouldEqual, 30*time.Minute)
				So(slots[1].StartTime.Sub(slots[0].StartTime), ShouldEqual, time.Hour)
			})
		})
	})

	Convey("Given the hash-based simulator", t, func() {
		gen := slotgrid.NewGenerator()
		sim := availability.NewSimulator()

		Convey("When generating with real availability", func() {
			slots := gen.Generate(slotgrid.Request{
				Day:             day(2026, 3, 5),
				DurationMinutes: 60,
				Participants:    []string{"a@x.com", "b@x.com", "c@x.com"},
			}, sim)

			Convey("Then availability should never exceed the participant count", func() {
				for _, s := range slots {
					So(s.TotalParticipants, ShouldEqual, 3)
					So(len(s.AvailableParticipants), ShouldBeLessThanOrEqualTo, 3)
				}
			})
		})
	})
}
