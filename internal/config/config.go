package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// MaxPoolConns caps DB_MAX_CONNS; pgxpool takes the value as int32
const MaxPoolConns = 1000

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Database DatabaseConfig
	Seed     SeedConfig
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
}

type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"3000"`
	Host            string        `env:"HOST" env-default:"0.0.0.0"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfig struct {
	// APIKeys guards mutating routes when non-empty
	APIKeys []string `env:"API_KEYS" env-separator:","`
}

// Enabled reports whether API key auth is turned on
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
}

type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"postgres"`
	URL             string        `env:"DATABASE_URL"`
	SQLitePath      string        `env:"SQLITE_PATH" env-default:"fruits.db"`
	MaxConns        int           `env:"DB_MAX_CONNS" env-default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" env-default:"2"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" env-default:"5m"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" env-default:"30m"`
	Migrate         bool          `env:"DB_MIGRATE" env-default:"true"`
}

type SeedConfig struct {
	// Sources are JSON Lines files or URLs loaded into an empty store on startup
	Sources []string      `env:"SEED_SOURCES" env-separator:","`
	Timeout time.Duration `env:"SEED_TIMEOUT" env-default:"1m"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	cfg.Auth.APIKeys = compact(cfg.Auth.APIKeys)
	cfg.CORS.AllowedOrigins = compact(cfg.CORS.AllowedOrigins)
	cfg.Seed.Sources = compact(cfg.Seed.Sources)
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		if c.Database.MaxConns <= 0 || c.Database.MaxConns > MaxPoolConns {
			return fmt.Errorf("DB_MAX_CONNS must be between 1 and %d", MaxPoolConns)
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid DB_DRIVER: %q (must be postgres, sqlite, or memory)", c.Database.Driver)
	}

	return nil
}

// compact trims entries and drops empty ones
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
