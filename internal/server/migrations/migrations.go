// Package migrations embeds the goose schema migrations for each supported
// database driver.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

//go:embed sqlite/*.sql
var SQLite embed.FS

// Ledger holds the SQLite schema of a per-user ledger file.
//
//go:embed ledger/*.sql
var Ledger embed.FS
