// Package config loads the program's runtime configuration from
// environment variables. Everything has a default; only malformed
// values are errors, detected at startup before any work happens.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variable names.
const (
	EnvBackend = "QFLIP_BACKEND"
	EnvEmail   = "QFLIP_EMAIL"
	EnvTimeout = "QFLIP_TIMEOUT"
	EnvShots   = "QFLIP_SHOTS"
	EnvSeed    = "QFLIP_SEED"
	EnvQconfig = "QFLIP_QCONFIG"
)

// Defaults, matching the original demo's behavior.
const (
	DefaultBackend = "local_qasm_simulator"
	DefaultEmail   = "N/A"
	DefaultTimeout = 120 * time.Second
	DefaultShots   = 10
	DefaultSeed    = 1
)

// Config holds one run's configuration.
type Config struct {
	// Backend is the execution backend identifier.
	Backend string

	// Email is the user identifier written to the output record.
	Email string

	// Timeout bounds the backend execution call.
	Timeout time.Duration

	// Shots is the number of circuit repetitions.
	Shots int

	// Seed fixes the sampling source for reproducible counts.
	Seed int64

	// QconfigPath is the optional provider credentials file.
	QconfigPath string
}

// Load reads configuration from the environment, applying defaults for
// unset variables and failing fast on malformed ones.
func Load() (*Config, error) {
	cfg := &Config{
		Backend:     envOr(EnvBackend, DefaultBackend),
		Email:       envOr(EnvEmail, DefaultEmail),
		Timeout:     DefaultTimeout,
		Shots:       DefaultShots,
		Seed:        DefaultSeed,
		QconfigPath: os.Getenv(EnvQconfig),
	}

	if v := os.Getenv(EnvTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer number of seconds, got %q", EnvTimeout, v)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv(EnvShots); v != "" {
		shots, err := strconv.Atoi(v)
		if err != nil || shots <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer, got %q", EnvShots, v)
		}
		cfg.Shots = shots
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be an integer, got %q", EnvSeed, v)
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
