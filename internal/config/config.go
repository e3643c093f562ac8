// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at the YAML problem catalog.
	CatalogPath string `koanf:"catalog_path"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the submission store.
	ShardCount int `koanf:"shard_count"`

	// MaxRecommendations caps GET /recommendations?limit.
	MaxRecommendations int `koanf:"max_recommendations"`

	// WeaknessWeight and ProgressionWeight split the recommendation
	// budget between weakness reinforcement and progression.
	WeaknessWeight    float64 `koanf:"weakness_weight"`
	ProgressionWeight float64 `koanf:"progression_weight"`

	// CorrectnessWeight, EfficiencyWeight, SpeedWeight and AttemptsWeight
	// are the scoring components. They must sum to 1.
	CorrectnessWeight float64 `koanf:"correctness_weight"`
	EfficiencyWeight  float64 `koanf:"efficiency_weight"`
	SpeedWeight       float64 `koanf:"speed_weight"`
	AttemptsWeight    float64 `koanf:"attempts_weight"`

	// NarratorEnabled switches LLM commentary on recommendation output.
	NarratorEnabled bool `koanf:"narrator_enabled"`

	// NarratorBaseURL, NarratorModel and NarratorTimeoutMS configure the
	// chat endpoint used for commentary.
	NarratorBaseURL   string `koanf:"narrator_base_url"`
	NarratorModel     string `koanf:"narrator_model"`
	NarratorTimeoutMS int    `koanf:"narrator_timeout_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		CatalogPath:        "catalog.yaml",
		QueueSize:          100_000,
		WorkerCount:        runtime.NumCPU() * 4,
		DedupeSize:         500_000,
		ShardCount:         32,
		MaxRecommendations: 10,
		WeaknessWeight:     0.6,
		ProgressionWeight:  0.4,
		CorrectnessWeight:  0.35,
		EfficiencyWeight:   0.30,
		SpeedWeight:        0.20,
		AttemptsWeight:     0.15,
		NarratorEnabled:    false,
		NarratorBaseURL:    "http://localhost:11434",
		NarratorModel:      "llama3.2",
		NarratorTimeoutMS:  10_000,
	}
}
