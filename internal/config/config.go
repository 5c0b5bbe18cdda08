// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file/env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// WorkdayStartMin and WorkdayEndMin bound the working window as
	// minutes from midnight.
	WorkdayStartMin int `koanf:"workday_start_min"`
	WorkdayEndMin   int `koanf:"workday_end_min"`

	// SlotStepMinutes is the stride between candidate slot starts.
	SlotStepMinutes int `koanf:"slot_step_minutes"`

	// DefaultDurationMinutes is the slot length used when a request has none.
	DefaultDurationMinutes int `koanf:"default_duration_minutes"`

	// MaxResults caps the number of slots returned per request.
	MaxResults int `koanf:"max_results"`

	// AvailabilityRate is the simulated availability percentage (0-100).
	AvailabilityRate int `koanf:"availability_rate"`

	// AvailabilityCacheSize bounds the availability lookup cache.
	AvailabilityCacheSize int `koanf:"availability_cache_size"`

	// LLMEndpoint is the chat-completions URL.
	LLMEndpoint string `koanf:"llm_endpoint"`

	// LLMAPIKey authenticates against the endpoint.
	LLMAPIKey string `koanf:"llm_api_key"`

	// LLMModel names the model used for extraction and formatting.
	LLMModel string `koanf:"llm_model"`

	// LLMTimeoutMS bounds each model round trip.
	LLMTimeoutMS int `koanf:"llm_timeout_ms"`

	// LLMTemperature and LLMMaxTokens tune the completion requests.
	LLMTemperature float64 `koanf:"llm_temperature"`
	LLMMaxTokens   int     `koanf:"llm_max_tokens"`

	// LLMStub switches the model transport to the deterministic stub,
	// useful for demos and offline runs.
	LLMStub bool `koanf:"llm_stub"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		WorkdayStartMin:        9 * 60,
		WorkdayEndMin:          17 * 60,
		SlotStepMinutes:        30,
		DefaultDurationMinutes: 60,
		MaxResults:             10,
		AvailabilityRate:       80,
		AvailabilityCacheSize:  50_000,
		LLMEndpoint:            "https://api.openai.com/v1/chat/completions",
		LLMModel:               "gpt-4o-mini",
		LLMTimeoutMS:           30_000,
		LLMTemperature:         0.1,
		LLMMaxTokens:           1024,
	}
}
