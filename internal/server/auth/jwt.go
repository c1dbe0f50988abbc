package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// JWTTokens implements Tokens with golang-jwt (HS256, subject = user id).
type JWTTokens struct {
	secret   []byte
	validity time.Duration
	now      Clock
}

// NewJWTTokens returns a JWTTokens signing with secret. A non-positive
// validity falls back to DefaultValidity.
func NewJWTTokens(secret []byte, validity time.Duration) *JWTTokens {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &JWTTokens{secret: secret, validity: validity, now: time.Now}
}

// WithClock replaces the time source for issuing and validating.
func (t *JWTTokens) WithClock(c Clock) *JWTTokens {
	t.now = c
	return t
}

func (t *JWTTokens) Issue(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(t.now().Add(t.validity)),
	})
	return token.SignedString(t.secret)
}

func (t *JWTTokens) Verify(tokenString string) (*Claims, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: subject", common.ErrInvalidToken)
	}

	return &Claims{UserID: userID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
}
