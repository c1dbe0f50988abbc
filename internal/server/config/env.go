package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every environment variable the server reads.
const envPrefix = "EXPENSES_"

// parseEnv overlays config with EXPENSES_* variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the process environment win over it.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDriver, "DB_DRIVER")
	envString(&config.DatabaseDSN, "DB_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.TokenBackend, "TOKEN_BACKEND")
	envString(&config.LedgerLayout, "LEDGER_LAYOUT")
	envString(&config.LedgerDir, "LEDGER_DIR")
	envString(&config.CORSOrigin, "CORS_ORIGIN")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.LogFormat, "LOG_FORMAT")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")

	if v, ok := os.LookupEnv(envPrefix + "TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}
