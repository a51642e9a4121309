package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the notebook service.
// Environment variables are parsed from the NOTEBOOK_ prefix,
// e.g. NOTEBOOK_HTTP_PORT, NOTEBOOK_POSTGRES_DSN.
type Config struct {
	// HTTP configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store driver selection: postgres or sqlite ("auto" resolves from DSN)
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Blob store: uploads live under MediaRoot; signed URLs are issued
	// with MediaSigningKey and expire after MediaURLTTLSeconds.
	MediaRoot           string `envconfig:"MEDIA_ROOT" default:"./media"`
	MediaSigningKey     string `envconfig:"MEDIA_SIGNING_KEY" default:""`
	MediaURLTTLSeconds  int    `envconfig:"MEDIA_URL_TTL_SECONDS" default:"604800"`
	MediaMaxUploadBytes int64  `envconfig:"MEDIA_MAX_UPLOAD_BYTES" default:"52428800"`

	// Autosave debounce window for the basic notebook, milliseconds.
	AutosaveDebounceMillis int `envconfig:"AUTOSAVE_DEBOUNCE_MILLIS" default:"600"`

	// Health probing
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Development bearer token accepted by the static authorizer when set.
	DevToken  string `envconfig:"DEV_TOKEN" default:""`
	DevUserID string `envconfig:"DEV_USER_ID" default:"linguanote-dev"`
}

// ResolveDefaults derives the store driver when set to "auto" and validates
// the final selection.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("DB_DRIVER=postgres requires POSTGRES_DSN")
		}
	case "sqlite":
		// empty SQLitePath means in-memory, which is fine for dev
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.MediaURLTTLSeconds <= 0 {
		return fmt.Errorf("MEDIA_URL_TTL_SECONDS must be positive")
	}
	return nil
}

// New creates a Config by parsing NOTEBOOK_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("NOTEBOOK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
