// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a registered account. PasswordHash is a cryptox hash record and
// never leaves the server.
type User struct {
	ID           int64
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
