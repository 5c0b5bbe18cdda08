package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SLOTWISE_CONFIG is set
//  3. env (prefix SLOTWISE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SLOTWISE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: SLOTWISE_ADDR, SLOTWISE_MAX_RESULTS, ...
	// Map env keys like SLOTWISE_MAX_RESULTS -> max_results (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SLOTWISE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "slotwise_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkdayEndMin <= c.WorkdayStartMin:
		return fmt.Errorf("%w: workday end must be after start", ErrInvalidConfig)
	case c.SlotStepMinutes <= 0:
		return fmt.Errorf("%w: slot step must be positive", ErrInvalidConfig)
	case c.DefaultDurationMinutes <= 0:
		return fmt.Errorf("%w: default duration must be positive", ErrInvalidConfig)
	case c.MaxResults <= 0:
		return fmt.Errorf("%w: max results must be positive", ErrInvalidConfig)
	case c.AvailabilityRate < 0 || c.AvailabilityRate > 100:
		return fmt.Errorf("%w: availability rate must be within 0-100", ErrInvalidConfig)
	}
	return nil
}
