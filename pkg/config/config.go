package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the service configuration, parsed from the environment.
type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"password"`
	DBName     string `env:"DB_NAME" envDefault:"bounty"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`

	// InMemory skips postgres and runs against the in-memory stores.
	InMemory bool `env:"IN_MEMORY" envDefault:"false"`

	// SeedFile points at a yaml file used to seed a demo tournament when the
	// store is empty. Empty disables seeding.
	SeedFile string `env:"SEED_FILE"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
