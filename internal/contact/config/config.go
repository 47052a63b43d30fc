package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the contact service.
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENVIRONMENT" envDefault:"development"`
	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           string   `env:"PORT" envDefault:"8000"`
	APIPrefix      string   `env:"API_PREFIX" envDefault:"/api/v1"`
	ProjectName    string   `env:"PROJECT_NAME" envDefault:"Portfolio Backend"`
	Version        string   `env:"APP_VERSION" envDefault:"1.0.0"`
	AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`

	// Addresses or CIDRs of reverse proxies whose X-Forwarded-For is
	// believed. Empty means the socket address is always used.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// MongoDB Configuration
	MongoDBURI         string `env:"MONGODB_URI,required"`
	DatabaseName       string `env:"DATABASE_NAME" envDefault:"portfolio_db"`
	ContactsCollection string `env:"CONTACTS_COLLECTION" envDefault:"contacts"`

	// Listing and submission limits
	DefaultPageSize  int64         `env:"CONTACT_PAGE_SIZE" envDefault:"50"`
	MaxPageSize      int64         `env:"CONTACT_MAX_PAGE_SIZE" envDefault:"200"`
	SubmitRateLimit  int           `env:"SUBMIT_RATE_LIMIT" envDefault:"5"`
	SubmitRateWindow time.Duration `env:"SUBMIT_RATE_WINDOW" envDefault:"1m"`

	// CEL expressions over name, email, subject, message, ip_address and
	// user_agent; a submission matching any of them is rejected.
	ScreeningRules []string `env:"SCREENING_RULES" envSeparator:";"`

	// Health probe circuit breaker
	BreakerMaxFailures uint32        `env:"HEALTH_BREAKER_FAILURES" envDefault:"3"`
	BreakerOpenTimeout time.Duration `env:"HEALTH_BREAKER_TIMEOUT" envDefault:"30s"`
	ProbeTimeout       time.Duration `env:"HEALTH_PROBE_TIMEOUT" envDefault:"2s"`

	Redis RedisConfig `envPrefix:"REDIS_"`
}

// RedisConfig configures the optional submissions archive.
type RedisConfig struct {
	Enabled         bool          `env:"ENABLED" envDefault:"false"`
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            string        `env:"PORT" envDefault:"6379"`
	Password        string        `env:"PASSWORD,unset"`
	Database        int           `env:"DB" envDefault:"0"`
	MaxRetries      int           `env:"MAX_RETRIES" envDefault:"3"`
	PoolSize        int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns    int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool          `env:"TLS" envDefault:"false"`
	ConnMaxIdleTime time.Duration `env:"CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
	StreamName      string        `env:"STREAM" envDefault:"contacts:submissions"`
	StreamMaxLength int64         `env:"STREAM_MAX_LENGTH" envDefault:"10000"`
}

// GetAddr returns host:port.
func (r RedisConfig) GetAddr() string {
	return net.JoinHostPort(r.Host, r.Port)
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load contact configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MongoDBURI == "" {
		return errors.New("mongodb_uri is required")
	}
	if c.DatabaseName == "" || c.ContactsCollection == "" {
		return errors.New("database_name and contacts_collection cannot be empty")
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		return errors.New("api_prefix must start with /")
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize < c.DefaultPageSize {
		return errors.New("contact page sizes must satisfy 0 < default <= max")
	}
	if c.SubmitRateLimit <= 0 || c.SubmitRateWindow <= 0 {
		return errors.New("submit rate limit and window must be positive")
	}
	if c.Redis.Enabled && c.Redis.StreamName == "" {
		return errors.New("redis stream name cannot be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// AllowsAnyOrigin reports whether CORS_ORIGINS contains the * wildcard.
// Credentialed CORS responses are not allowed for wildcard origins.
func (c *Config) AllowsAnyOrigin() bool {
	for _, origin := range c.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
