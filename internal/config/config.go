package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the smartcart service.
// Environment variables are automatically parsed from the SMARTCART_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store Configuration
	DBPath string `envconfig:"DB_PATH" default:"smartcart.db.json"`

	// EncryptionKey protects the on-disk store. A 64-hex-char value is used
	// directly as a 256-bit key; anything else is hashed into one. Empty
	// falls back to an insecure development key.
	EncryptionKey string `envconfig:"ENCRYPTION_KEY" default:""`

	// Budget Configuration
	DefaultBudgetCap float64 `envconfig:"DEFAULT_BUDGET_CAP" default:"500"`

	// Audit Configuration
	AuditRetentionDays int `envconfig:"AUDIT_RETENTION_DAYS" default:"365"`
}

// Validate checks ranges that envconfig cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH must not be empty")
	}
	if c.DefaultBudgetCap < 0 {
		return fmt.Errorf("DEFAULT_BUDGET_CAP must be non-negative")
	}
	if c.AuditRetentionDays <= 0 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be positive")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with SMARTCART_
// Example: SMARTCART_HTTP_PORT, SMARTCART_DB_PATH
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SMARTCART", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.EncryptionKey == "" {
		log.Warn().Msg("SMARTCART_ENCRYPTION_KEY not set; using development fallback key. THIS IS NOT SECURE.")
	}

	log.Info().
		Int("http_port", cfg.HTTPPort).
		Str("db_path", cfg.DBPath).
		Float64("default_budget_cap", cfg.DefaultBudgetCap).
		Int("audit_retention_days", cfg.AuditRetentionDays).
		Bool("encryption_key_present", cfg.EncryptionKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}
