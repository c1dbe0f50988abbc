// Package cli provides the interactive expense keeper command-line client.
//
// It wires configuration, the HTTP API client and a REPL. Typical flow:
// register or log in, record expenses, then ask for summaries and reports.
//
// Key features:
//   - Register / Login / Logout
//   - Add, list, show and delete expenses; filter by category or date range
//   - Category summary, grand total, text report, CSV export and S3 archive
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
