// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"hansik/models"
)

// Catalog sources.
const (
	SourceEmbedded  = "embedded"
	SourceFile      = "file"
	SourceFirestore = "firestore"
)

// Config holds every runtime setting of the service.
type Config struct {
	HTTPAddr  string `env:"HANSIK_HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"HANSIK_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"HANSIK_LOG_FORMAT" envDefault:"text"`

	CatalogSource       string `env:"HANSIK_CATALOG_SOURCE" envDefault:"embedded"`
	CatalogFile         string `env:"HANSIK_CATALOG_FILE"`
	FirestoreProject    string `env:"HANSIK_FIRESTORE_PROJECT"`
	FirestoreCollection string `env:"HANSIK_FIRESTORE_COLLECTION" envDefault:"recipes"`

	CORSOrigins      []string      `env:"HANSIK_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	ThumbnailTTL     time.Duration `env:"HANSIK_THUMBNAIL_TTL" envDefault:"1h"`
	ThumbnailTimeout time.Duration `env:"HANSIK_THUMBNAIL_TIMEOUT" envDefault:"10s"`
	RecentCount      int           `env:"HANSIK_RECENT_COUNT" envDefault:"6"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the process environment into a validated Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return models.Errorf(models.EINVALID, "http address is required")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return models.Errorf(models.EINVALID, "unknown log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return models.Errorf(models.EINVALID, "unknown log format %q", c.LogFormat)
	}
	switch c.CatalogSource {
	case SourceEmbedded:
	case SourceFile:
		if c.CatalogFile == "" {
			return models.Errorf(models.EINVALID, "HANSIK_CATALOG_FILE is required for the file source")
		}
	case SourceFirestore:
		if c.FirestoreProject == "" {
			return models.Errorf(models.EINVALID, "HANSIK_FIRESTORE_PROJECT is required for the firestore source")
		}
	default:
		return models.Errorf(models.EINVALID, "unknown catalog source %q", c.CatalogSource)
	}
	if c.RecentCount < 1 {
		return models.Errorf(models.EINVALID, "recent count must be positive")
	}
	if c.ThumbnailTimeout <= 0 {
		return models.Errorf(models.EINVALID, "thumbnail timeout must be positive")
	}
	return nil
}
