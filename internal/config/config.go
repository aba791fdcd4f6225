// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverMemory  = "memory"
	DriverSpanner = "spanner"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Log     LogConfig
	Metrics MetricsConfig
	Catalog CatalogConfig
	Outbox  OutboxConfig
}

// ServerConfig holds listener configuration.
type ServerConfig struct {
	Env             string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

// StoreConfig selects and configures persistence.
type StoreConfig struct {
	Driver          string
	SpannerDatabase string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration.
type MetricsConfig struct {
	Prefix string
}

// CatalogConfig holds catalog presentation defaults.
type CatalogConfig struct {
	PageSize      int
	DisplayLocale string
}

// OutboxConfig drives the in-process outbox relay. A zero RelayInterval
// disables it, leaving pending events to an external relay.
type OutboxConfig struct {
	RelayInterval time.Duration
	BatchSize     int
	MaxRetries    int64
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; variables already set in the
// environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the current environment without validation.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Env:             getEnv("APP_ENV", "development"),
			HTTPPort:        getEnv("HTTP_PORT", "8080"),
			GRPCPort:        getEnv("GRPC_PORT", "9090"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", DriverMemory),
			// Default for local development with emulator
			SpannerDatabase: getEnv("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/markup-catalog-db"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "catalog"),
		},
		Catalog: CatalogConfig{
			PageSize:      getEnvAsInt("PAGE_SIZE", 5),
			DisplayLocale: getEnv("DISPLAY_LOCALE", "en-IN"),
		},
		Outbox: OutboxConfig{
			RelayInterval: getEnvAsDuration("OUTBOX_RELAY_INTERVAL", 5*time.Second),
			BatchSize:     getEnvAsInt("OUTBOX_BATCH_SIZE", 50),
			MaxRetries:    int64(getEnvAsInt("OUTBOX_MAX_RETRIES", 5)),
		},
	}
}

// Validate checks values that would otherwise fail late at startup.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSpanner:
		if c.Store.SpannerDatabase == "" {
			errs = append(errs, errors.New("SPANNER_DATABASE is required for the spanner store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q (want %s or %s)", c.Store.Driver, DriverMemory, DriverSpanner))
	}
	if c.Catalog.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Catalog.PageSize))
	}
	if c.Outbox.RelayInterval < 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_RELAY_INTERVAL cannot be negative, got %s", c.Outbox.RelayInterval))
	}
	if c.Outbox.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.Outbox.BatchSize))
	}
	if c.Outbox.MaxRetries <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_MAX_RETRIES must be positive, got %d", c.Outbox.MaxRetries))
	}
	if c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT cannot be empty"))
	}
	if c.Server.GRPCPort == "" {
		errs = append(errs, errors.New("GRPC_PORT cannot be empty"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
