package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, DriverSQLite, c.DatabaseDriver)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, TokenBackendHMAC, c.TokenBackend)
	assert.Equal(t, LedgerLayoutShared, c.LedgerLayout)
	assert.Equal(t, "*", c.CORSOrigin)
	assert.False(t, c.ArchiveEnabled())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsWithoutOverrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	c := LoadConfig()
	require.NotNil(t, c)
	assert.Equal(t, ":8000", c.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"postgres", func(c *Config) { c.DatabaseDriver = DriverPostgres }, true},
		{"bad driver", func(c *Config) { c.DatabaseDriver = "mysql" }, false},
		{"jwt backend", func(c *Config) { c.TokenBackend = TokenBackendJWT }, true},
		{"bad backend", func(c *Config) { c.TokenBackend = "paseto" }, false},
		{"per user", func(c *Config) { c.LedgerLayout = LedgerLayoutPerUser }, true},
		{"per user no dir", func(c *Config) { c.LedgerLayout = LedgerLayoutPerUser; c.LedgerDir = "" }, false},
		{"bad layout", func(c *Config) { c.LedgerLayout = "sharded" }, false},
		{"empty secret", func(c *Config) { c.SecretKey = "" }, false},
		{"zero ttl", func(c *Config) { c.AccessTokenValidityDuration = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestLoadBaseConfig_LayersWithoutFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{"database_dsn": "from-json", "secret_key": "json-key"})
	t.Setenv("EXPENSES_DB_DSN", "from-env")

	c := LoadBaseConfig([]string{"-c", path, "-a", ":1"})
	assert.Equal(t, "from-env", c.DatabaseDSN)
	assert.Equal(t, "json-key", c.SecretKey)
	assert.Equal(t, ":8000", c.EndpointAddrHTTP, "flags are not parsed")
}
