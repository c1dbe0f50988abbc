// Package client contains the HTTP client the CLI uses to talk to the
// expense keeper API.
//
// # Overview
//
// HTTPClient wraps the /api/v1 routes: account registration and login,
// expense CRUD and the analytics endpoints. A successful Login keeps the
// bearer token in memory and attaches it to every later request; Logout
// forgets it.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound, ErrConflict and
// ErrBadRequest. The server's message is preserved in an *APIError.
package client
