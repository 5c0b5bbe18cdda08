package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			metricPrefixOpt := WithMetricPrefix("test-prefix")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(metricPrefixOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithMetricPrefix("test-prefix"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test", "version": "1.0"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording pipeline metrics", func() {
			Convey("Then it should record scheduling requests", func() {
				So(func() {
					RecordScheduleRequest()
					RecordScheduleRequest()
				}, ShouldNotPanic)
			})

			Convey("And it should record clarifications and panics", func() {
				So(func() {
					RecordClarification()
					RecordPipelinePanic()
				}, ShouldNotPanic)
			})

			Convey("And it should record slot generation", func() {
				So(func() {
					RecordSlotsGenerated(0)
					RecordSlotsGenerated(15)
					RecordSlotsGenerated(75)
					RecordFallbackInjected()
				}, ShouldNotPanic)
			})

			Convey("And it should record anomaly corrections by kind", func() {
				So(func() {
					RecordAnomalyCorrection("weekend")
					RecordAnomalyCorrection("collapsed_week")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording extraction metrics", func() {
			Convey("Then it should record attempts, retries, and latency", func() {
				So(func() {
					RecordExtractionAttempt()
					RecordExtractionRetry()
					RecordLLMLatency(120.0)
					RecordLLMLatency(2400.0)
					RecordFormatterFallback()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("/schedule", "POST", "200")
					RecordHTTPRequestDuration("/schedule", "POST", "200", 42.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record by component, type, and endpoint", func() {
				So(func() {
					RecordErrorByComponent("extract", "transport")
					RecordErrorByType("transport", "warning")
					RecordErrorByEndpoint("/schedule", "POST", "bad_request")
					RecordErrorLatency("extract", "transport", 30000.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When updating gauges", func() {
			Convey("Then it should update availability and system gauges", func() {
				So(func() {
					UpdateAvailabilityCacheSize(1024)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(1.5)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should gather the registered metrics", func() {
				So(registry, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
			})
		})
	})
}
