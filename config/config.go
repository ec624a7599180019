// Package config loads CLI and integration configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-driven configuration consumed by the CLI and
// by applications embedding the engine with environment wiring.
type Config struct {
	// Endpoint is the backend base URL.
	Endpoint string `env:"ROSTER_ENDPOINT,notEmpty"`
	// Stage is the backend deployment stage sent with every request.
	Stage string `env:"ROSTER_STAGE" envDefault:"prod"`

	// UserID and Email identify the logged-in user.
	UserID string `env:"ROSTER_USER_ID"`
	Email  string `env:"ROSTER_EMAIL"`

	// DBPath is the SQLite database location.
	DBPath string `env:"ROSTER_DB_PATH" envDefault:"roster.db"`

	StalenessWindow time.Duration `env:"ROSTER_STALENESS_WINDOW" envDefault:"6h"`
	PageSize        int           `env:"ROSTER_PAGE_SIZE" envDefault:"50"`
	BatchSize       int           `env:"ROSTER_BATCH_SIZE" envDefault:"1000"`
	FetchTimeout    time.Duration `env:"ROSTER_FETCH_TIMEOUT" envDefault:"30s"`

	// LogJSON switches the CLI logger to JSON output.
	LogJSON bool `env:"ROSTER_LOG_JSON" envDefault:"false"`
}

// FromEnv parses the configuration from the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
