package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/slotwise/slotwise/internal/adapters/http/api"
	"github.com/slotwise/slotwise/internal/adapters/llm"
	service "github.com/slotwise/slotwise/internal/app"
	"github.com/slotwise/slotwise/internal/config"
	"github.com/slotwise/slotwise/internal/domain/availability"
	"github.com/slotwise/slotwise/internal/domain/calendar"
	"github.com/slotwise/slotwise/internal/domain/slotgrid"
	"github.com/slotwise/slotwise/internal/extract"
	"github.com/slotwise/slotwise/internal/format"
	"github.com/slotwise/slotwise/pkg/logger"
	"github.com/slotwise/slotwise/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 60 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Model transport: live HTTP endpoint, or the deterministic stub for
	// offline runs and demos.
	var transport llm.Transport
	if cfg.LLMStub {
		loggerInstance.Info(ctx, "running with the stubbed model transport")
		transport = llm.NewStubTransport(stubExtractionReply(time.Now()))
	} else {
		transport = llm.NewHTTPTransport(cfg.LLMEndpoint,
			llm.WithAPIKey(cfg.LLMAPIKey),
			llm.WithTimeout(time.Duration(cfg.LLMTimeoutMS)*time.Millisecond),
		)
	}

	client := llm.NewClient(transport,
		llm.WithModel(cfg.LLMModel),
		llm.WithTemperature(cfg.LLMTemperature),
		llm.WithMaxTokens(cfg.LLMMaxTokens),
	)

	checker := availability.NewCachedChecker(
		availability.NewSimulator(availability.WithAvailabilityRate(cfg.AvailabilityRate)),
		availability.WithCacheSize(cfg.AvailabilityCacheSize),
	)

	svc := service.NewService(
		extract.NewGateway(client),
		format.NewFormatter(client),
		service.WithLogger(loggerInstance),
		service.WithChecker(checker),
		service.WithGenerator(slotgrid.NewGenerator(
			slotgrid.WithWorkday(cfg.WorkdayStartMin, cfg.WorkdayEndMin),
			slotgrid.WithStep(cfg.SlotStepMinutes),
			slotgrid.WithDefaultDuration(cfg.DefaultDurationMinutes),
		)),
		service.WithMaxResults(cfg.MaxResults),
	)

	// Start metrics updaters
	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, checker)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// stubExtractionReply scripts one plausible extraction for stub mode: the
// next full business week relative to now, so offline demos produce slots.
func stubExtractionReply(now time.Time) string {
	start := calendar.NextBusinessDay(now.AddDate(0, 0, 1))
	end := start
	for i := 0; i < 4; i++ {
		end = calendar.NextBusinessDay(end.AddDate(0, 0, 1))
	}
	return fmt.Sprintf(`{
  "startDate": %q,
  "endDate": %q,
  "timeOfDay": "all",
  "durationMinutes": 60,
  "participantEmails": ["demo@example.com", "peer@example.com"],
  "daysSelector": {"mode": "fullRange", "n": null, "daysOfWeek": null},
  "needClarification": false
}`, start.Format("2006-01-02"), end.Format("2006-01-02"))
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes
// service-level gauges.
func startServiceMetricsUpdater(ctx context.Context, checker *availability.CachedChecker) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateAvailabilityCacheSize(checker.Size())
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Average pause over the process lifetime
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
