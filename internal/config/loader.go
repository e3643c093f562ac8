package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SENSEI_CONFIG is set
//  3. env (prefix SENSEI_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SENSEI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SENSEI_ADDR, SENSEI_QUEUE_SIZE, ...
	// Map env keys like SENSEI_QUEUE_SIZE -> queue_size (flat keys).
	// Underscores are preserved to match koanf tags on the struct.
	envProvider := env.Provider("SENSEI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sensei_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("%w: catalog_path must not be empty", ErrInvalidConfig)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("%w: max_recommendations must be positive", ErrInvalidConfig)
	}
	if c.WeaknessWeight < 0 || c.ProgressionWeight < 0 {
		return fmt.Errorf("%w: strategy weights must not be negative", ErrInvalidConfig)
	}

	sum := c.CorrectnessWeight + c.EfficiencyWeight + c.SpeedWeight + c.AttemptsWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: scoring weights must sum to 1, got %v", ErrInvalidConfig, sum)
	}

	if c.NarratorEnabled && c.NarratorBaseURL == "" {
		return fmt.Errorf("%w: narrator_base_url required when narrator is enabled", ErrInvalidConfig)
	}
	return nil
}
