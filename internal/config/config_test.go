package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "smartcart.db.json", cfg.DBPath)
	assert.Equal(t, 500.0, cfg.DefaultBudgetCap)
	assert.Equal(t, 365, cfg.AuditRetentionDays)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SMARTCART_HTTP_PORT", "9090")
	t.Setenv("SMARTCART_DB_PATH", "/tmp/test.db.json")
	t.Setenv("SMARTCART_DEFAULT_BUDGET_CAP", "750")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "/tmp/test.db.json", cfg.DBPath)
	assert.Equal(t, 750.0, cfg.DefaultBudgetCap)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"port zero", func(c *Config) { c.HTTPPort = 0 }},
		{"port too large", func(c *Config) { c.HTTPPort = 70000 }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"negative cap", func(c *Config) { c.DefaultBudgetCap = -1 }},
		{"zero retention", func(c *Config) { c.AuditRetentionDays = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{HTTPPort: 8080, DBPath: "x.json", DefaultBudgetCap: 500, AuditRetentionDays: 365}
			tc.mut(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
