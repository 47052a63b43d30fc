package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds everything the database initializer needs. Values are injected
// from the environment at process start.
type Config struct {
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"portfolio_db"`

	AppUser     string `env:"APP_DB_USER" envDefault:"portfolio_user"`
	AppPassword string `env:"APP_DB_PASSWORD,required,unset"`
	AppRole     string `env:"APP_DB_ROLE" envDefault:"readWrite"`

	ContactsCollection string        `env:"CONTACTS_COLLECTION" envDefault:"contacts"`
	Timeout            time.Duration `env:"SETUP_TIMEOUT" envDefault:"30s"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load setup configuration from environment: " + err.Error() +
			". Please ensure all required environment variables are set.")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that env tags cannot express.
func (c *Config) Validate() error {
	if c.MongoDBURI == "" {
		return errors.New("mongodb_uri is required")
	}
	if c.DatabaseName == "" {
		return errors.New("database_name cannot be empty")
	}
	if c.AppUser == "" {
		return errors.New("app_db_user cannot be empty")
	}
	if c.AppPassword == "" {
		return errors.New("app_db_password is required")
	}
	if c.AppRole == "" {
		return errors.New("app_db_role cannot be empty")
	}
	if c.ContactsCollection == "" {
		return errors.New("contacts_collection cannot be empty")
	}
	if c.Timeout <= 0 {
		return errors.New("setup_timeout must be positive")
	}
	return nil
}
