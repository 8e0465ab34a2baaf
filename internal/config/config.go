// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New() initializer to build a Config with defaults.
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

	// ModelFile points at the YAML file holding per-season rating models.
	ModelFile string `koanf:"model_file"`

	// QueueSize bounds the in-memory stat-line queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ranking workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// TransformExponent shapes the percentile-to-score transform.
	TransformExponent float64 `koanf:"transform_exponent"`

	// GlobalWeights is the last-resort category weight table used when no
	// season model matches a stat line.
	GlobalWeights map[string]float64 `koanf:"global_weights"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		ModelFile:           "models.yaml",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		TransformExponent:   1.8,
		GlobalWeights: map[string]float64{
			"G":   4.0,
			"A":   3.0,
			"P":   1.0,
			"PPP": 1.5,
			"SOG": 0.5,
			"HIT": 0.4,
			"BLK": 0.4,
			"W":   5.0,
			"SV":  0.2,
			"SO":  3.0,
		},
	}
}
