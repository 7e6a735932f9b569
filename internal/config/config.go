package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the story service.
// Environment variables are parsed from the STORY_SERVICE_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// DBDriver is postgres or sqlite; "auto" derives it from BuildTarget.
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Published story cache; empty RedisURL disables caching.
	RedisURL        string `envconfig:"REDIS_URL" default:""`
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" default:"300"`

	// Media object storage (S3 compatible)
	MediaEndpoint       string `envconfig:"MEDIA_ENDPOINT" default:""`
	MediaAccessKey      string `envconfig:"MEDIA_ACCESS_KEY" default:""`
	MediaSecretKey      string `envconfig:"MEDIA_SECRET_KEY" default:""`
	MediaBucket         string `envconfig:"MEDIA_BUCKET" default:"story-media"`
	MediaUseSSL         bool   `envconfig:"MEDIA_USE_SSL" default:"true"`
	MediaPublicBaseURL  string `envconfig:"MEDIA_PUBLIC_BASE_URL" default:""`
	MediaMaxUploadBytes int64  `envconfig:"MEDIA_MAX_UPLOAD_BYTES" default:"52428800"`

	// Number of sections whose gallery/timeline children load concurrently.
	LoadConcurrency int `envconfig:"LOAD_CONCURRENCY" default:"4"`

	// Health configuration
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthCheckTimeoutSeconds int `envconfig:"HEALTH_CHECK_TIMEOUT_SECONDS" default:"2"`

	// BootstrapTimeoutSeconds bounds migrations and the first health check.
	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver and SQLitePath when unset.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			c.SQLitePath = "data/stories.db"
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	if c.LoadConcurrency <= 0 {
		c.LoadConcurrency = 1
	}
	if c.MediaMaxUploadBytes <= 0 {
		return fmt.Errorf("MEDIA_MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with STORY_SERVICE_
// Example: STORY_SERVICE_DB_DRIVER, STORY_SERVICE_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("STORY_SERVICE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("cache_enabled", cfg.RedisURL != "").
		Str("media_endpoint", cfg.MediaEndpoint).
		Str("media_bucket", cfg.MediaBucket).
		Int64("media_max_upload_bytes", cfg.MediaMaxUploadBytes).
		Int("load_concurrency", cfg.LoadConcurrency).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		BuildTarget:               "local",
		DBDriver:                  "sqlite",
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  8080,
		CacheTTLSeconds:           60,
		MediaBucket:               "story-media",
		MediaMaxUploadBytes:       50 << 20,
		LoadConcurrency:           4,
		HealthIntervalSeconds:     1,
		HealthCheckTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   5,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthCheckTimeout() time.Duration {
	return time.Duration(c.HealthCheckTimeoutSeconds) * time.Second
}

func (c *Config) BootstrapTimeout() time.Duration {
	return time.Duration(c.BootstrapTimeoutSeconds) * time.Second
}
