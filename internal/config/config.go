// Package config loads the CLI's environment configuration. Flags win
// over these values; these win over the XDG defaults.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the environment surface of the CLI.
type Config struct {
	// DBPath is the database location. For the sqlite driver this is a
	// file path; for postgres, a connection string.
	DBPath string `env:"FOGMAP_DB"`

	// DBDriver selects the storage backend.
	DBDriver string `env:"FOGMAP_DB_DRIVER" envDefault:"sqlite"`

	// ContentDir is the root of the compiled book content tree.
	ContentDir string `env:"FOGMAP_CONTENT_DIR" envDefault:"content"`

	// LearnerID names the local learner profile.
	LearnerID string `env:"FOGMAP_LEARNER" envDefault:"default"`
}

// FromEnv loads configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
