package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the auth service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8000"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"authgo"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"authgo_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"authgo"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// JWT
	JWTSecret        string `env:"JWT_SECRET" envDefault:"change-this-to-a-secure-secret"`
	JWTAccessExpiry  string `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"30m"`
	JWTRefreshExpiry string `env:"JWT_REFRESH_TOKEN_EXPIRY" envDefault:"168h"`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSample    float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load auth config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	if _, err := cfg.AccessExpiry(); err != nil {
		return nil, err
	}
	if _, err := cfg.RefreshExpiry(); err != nil {
		return nil, err
	}

	// In non-development environments, require an explicitly set, strong JWT secret.
	if cfg.Environment != "development" {
		if cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", cfg.Environment)
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(cfg.JWTSecret))
		}
	}

	return cfg, nil
}

// AccessExpiry parses the access token lifetime.
func (c *Config) AccessExpiry() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTAccessExpiry)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY %q", c.JWTAccessExpiry)
	}
	return d, nil
}

// RefreshExpiry parses the refresh token lifetime.
func (c *Config) RefreshExpiry() (time.Duration, error) {
	d, err := time.ParseDuration(c.JWTRefreshExpiry)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid JWT_REFRESH_TOKEN_EXPIRY %q", c.JWTRefreshExpiry)
	}
	return d, nil
}
