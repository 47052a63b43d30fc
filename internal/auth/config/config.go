package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the admin auth module.
type Config struct {
	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required,unset"`

	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required,unset"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"portfolio-backend"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`

	// Login rate limiting, per client IP
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load auth configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.AdminUsername == "" {
		return errors.New("admin username cannot be empty")
	}
	if c.AdminPasswordHash == "" {
		return errors.New("admin password hash cannot be empty")
	}
	if len(c.JWTSecretKey) < 32 {
		return errors.New("jwt secret key must be at least 32 characters")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access token TTL must be positive")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("login rate limit must be positive")
	}
	return nil
}
