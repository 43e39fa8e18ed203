// Package config handles loading of the importer settings from the
// environment and of optional column mapping files.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	TargetPostgres  = "postgres"
	TargetSQLServer = "sqlserver"
	TargetSQLite    = "sqlite"
	TargetMongo     = "mongo"
)

// Config holds all settings for the importer, typically loaded from
// environment variables (populated from .env in main.go).
type Config struct {
	Target string `env:"IMPORT_TARGET" envDefault:"postgres"`

	PostgresConnString string `env:"DATABASE_URL"`
	SQLConnString      string `env:"SQL_CONNECTION_STRING"`
	SQLitePath         string `env:"SQLITE_PATH" envDefault:"soundope.db"`
	MongoConnString    string `env:"MONGO_CONNECTION_STRING"`
	MongoDatabase      string `env:"MONGO_DATABASE" envDefault:"soundope"`

	PlaceholderEmailDomain string `env:"PLACEHOLDER_EMAIL_DOMAIN" envDefault:"placeholder.soundope.app"`
	ErrorPreviewLimit      int    `env:"ERROR_PREVIEW_LIMIT" envDefault:"10"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.Target = strings.ToLower(strings.TrimSpace(cfg.Target))
	if cfg.ErrorPreviewLimit < 0 {
		return nil, fmt.Errorf("ERROR_PREVIEW_LIMIT must be non-negative, got %d", cfg.ErrorPreviewLimit)
	}
	return &cfg, nil
}

// Validate checks that the connection settings for target are present.
func (c *Config) Validate(target string) error {
	switch target {
	case TargetPostgres:
		if c.PostgresConnString == "" {
			return errors.New("DATABASE_URL environment variable not set")
		}
	case TargetSQLServer:
		if c.SQLConnString == "" {
			return errors.New("SQL_CONNECTION_STRING environment variable not set")
		}
	case TargetSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH environment variable not set")
		}
	case TargetMongo:
		if c.MongoConnString == "" {
			return errors.New("MONGO_CONNECTION_STRING environment variable not set")
		}
		if c.MongoDatabase == "" {
			return errors.New("MONGO_DATABASE environment variable not set")
		}
	default:
		return fmt.Errorf("unsupported target %q (postgres|sqlserver|sqlite|mongo)", target)
	}
	return nil
}
