package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-k string   database driver ("sqlite" or "postgres")
//	-d string   database DSN
//	-s string   token signing secret
//	-t int      access token validity, minutes
//	-j string   token backend ("hmac" or "jwt")
//	-l string   ledger layout ("shared" or "per_user")
//	-L string   ledger directory for the per_user layout
//	-b string   S3 bucket for report archives
//	-e string   S3 base endpoint
//
// Only these flags are parsed (flagx.FilterArgs), so -c / -config and
// unrelated flags pass through untouched.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-d", "-s", "-t", "-j", "-l", "-L", "-b", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "k", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.StringVar(&config.TokenBackend, "j", config.TokenBackend, "token backend")
	fs.StringVar(&config.LedgerLayout, "l", config.LedgerLayout, "ledger layout")
	fs.StringVar(&config.LedgerDir, "L", config.LedgerDir, "ledger directory")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket for report archives")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minutes are lossy, so only an explicit -t replaces the current value.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
		}
	})
}
