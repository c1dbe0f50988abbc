// Package auth issues and verifies the bearer access tokens that carry a
// user identity. Callers depend only on Tokens, so the signing scheme can be
// swapped without touching them.
package auth

import "time"

// DefaultValidity is the access token lifetime when none is configured.
const DefaultValidity = 30 * time.Minute

// Claims is the verified content of a token.
type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// Tokens issues and verifies access tokens.
//
// Verify fails with one of common.ErrMalformedToken,
// common.ErrInvalidSignature, common.ErrInvalidToken or
// common.ErrTokenExpired (possibly wrapped).
type Tokens interface {
	Issue(userID int64) (string, error)
	Verify(token string) (*Claims, error)
}

// Clock returns the current time. Tests replace it to move through expiry.
type Clock func() time.Time
