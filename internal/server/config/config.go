// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	TokenBackendHMAC = "hmac"
	TokenBackendJWT  = "jwt"

	LedgerLayoutShared  = "shared"
	LedgerLayoutPerUser = "per_user"
)

// Config holds runtime settings for the expense keeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDriver / DatabaseDSN: "sqlite" (modernc) or "postgres" (pgx).
//   - SecretKey: HMAC secret for signing access tokens. Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - TokenBackend: "hmac" (built-in signer) or "jwt" (golang-jwt).
//   - LedgerLayout / LedgerDir: "shared" expenses table or one SQLite file per user under LedgerDir.
//   - CORSOrigin: allowed origins for browser clients.
//   - LogLevel / LogFormat: slog level and "json" or "text".
//   - S3*: object storage used to archive CSV reports; archiving is off when S3Bucket is empty.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	TokenBackend                string
	LedgerLayout                string
	LedgerDir                   string
	CORSOrigin                  string
	LogLevel                    string
	LogFormat                   string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8000"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:expenses.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.TokenBackend = TokenBackendHMAC
	c.LedgerLayout = LedgerLayoutShared
	c.LedgerDir = "ledgers"
	c.CORSOrigin = "*"
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.S3Region = "us-east-1"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.DatabaseDriver)
	}
	switch c.TokenBackend {
	case TokenBackendHMAC, TokenBackendJWT:
	default:
		return fmt.Errorf("unsupported token backend %q", c.TokenBackend)
	}
	switch c.LedgerLayout {
	case LedgerLayoutShared:
	case LedgerLayoutPerUser:
		if c.LedgerDir == "" {
			return fmt.Errorf("ledger dir is required for %q layout", LedgerLayoutPerUser)
		}
	default:
		return fmt.Errorf("unsupported ledger layout %q", c.LedgerLayout)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive")
	}
	return nil
}

// ArchiveEnabled reports whether CSV report archiving to S3 is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := LoadBaseConfig(os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}

// LoadBaseConfig applies defaults, the JSON file named by -c / -config in
// args and the environment (including .env), leaving flags to the caller.
func LoadBaseConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	return cfg
}
