package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds the settings for the resume and certification file routes.
type Config struct {
	// Directory holding resume/resume.pdf and certifications/.
	Dir string `env:"STATIC_DIR" envDefault:"static"`

	// Browser cache lifetime for certification images
	CertificationMaxAge time.Duration `env:"CERTIFICATION_MAX_AGE" envDefault:"1h"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to load static configuration from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("static_dir cannot be empty")
	}
	if c.CertificationMaxAge < 0 {
		return errors.New("certification max age cannot be negative")
	}
	return nil
}
