package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Archive drivers selected from DATABASE_URL.
const (
	DriverNone     = ""
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port           string        `env:"PORT" envDefault:"8010"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	AllowedOrigins string        `env:"CORS_ORIGINS" envDefault:"*"`
	SnapshotTTL    time.Duration `env:"SNAPSHOT_TTL" envDefault:"24h"`

	Seed          int64  `env:"SEED"`
	ScenarioFile  string `env:"SCENARIO_FILE"`
	PlayerFaction string `env:"PLAYER_FACTION"`
	MaxTurns      int    `env:"MAX_TURNS"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
	Dev      bool   `env:"DEV"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxTurns < 0 {
		return nil, fmt.Errorf("MAX_TURNS must not be negative, got %d", cfg.MaxTurns)
	}
	return &cfg, nil
}

// Archive splits DATABASE_URL into a driver name and the DSN that driver
// expects. An empty URL disables archiving.
func (c *Config) Archive() (driver, dsn string, err error) {
	u := strings.TrimSpace(c.DatabaseURL)
	switch {
	case u == "":
		return DriverNone, "", nil
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return DriverPostgres, u, nil
	case strings.HasPrefix(u, "sqlite://"):
		path := strings.TrimPrefix(u, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite DATABASE_URL needs a file path")
		}
		return DriverSQLite, path, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", u)
	}
}

// EffectiveSeed returns SEED, or a time-based seed when SEED is unset.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
