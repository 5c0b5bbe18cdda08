package config_test

import (
	"testing"

	"github.com/slotwise/slotwise/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.WorkdayStartMin, convey.ShouldEqual, 540)
			convey.So(cfg.WorkdayEndMin, convey.ShouldEqual, 1020)
			convey.So(cfg.SlotStepMinutes, convey.ShouldEqual, 30)
			convey.So(cfg.DefaultDurationMinutes, convey.ShouldEqual, 60)
			convey.So(cfg.MaxResults, convey.ShouldEqual, 10)
			convey.So(cfg.AvailabilityRate, convey.ShouldEqual, 80)
			convey.So(cfg.LLMModel, convey.ShouldEqual, "gpt-4o-mini")
			convey.So(cfg.LLMTimeoutMS, convey.ShouldEqual, 30_000)
			convey.So(cfg.LLMStub, convey.ShouldBeFalse)
		})
	})
}
