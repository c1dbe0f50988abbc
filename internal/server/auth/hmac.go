package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

// tokenHeader is fixed; Verify never reads it back beyond the signature.
const tokenHeader = `{"alg":"HS256","typ":"JWT"}`

var b64 = base64.RawURLEncoding

type hmacPayload struct {
	Sub int64 `json:"sub"`
	Exp int64 `json:"exp"`
}

// HMACTokens is a minimal three-part token: base64url(header) "."
// base64url(payload) "." base64url(HMAC-SHA256(secret, header "." payload)).
type HMACTokens struct {
	secret   []byte
	validity time.Duration
	now      Clock
}

// NewHMACTokens returns an HMACTokens signing with secret. A non-positive
// validity falls back to DefaultValidity.
func NewHMACTokens(secret []byte, validity time.Duration) *HMACTokens {
	if validity <= 0 {
		validity = DefaultValidity
	}
	return &HMACTokens{secret: secret, validity: validity, now: time.Now}
}

// WithClock replaces the time source.
func (t *HMACTokens) WithClock(c Clock) *HMACTokens {
	t.now = c
	return t
}

func (t *HMACTokens) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}

func (t *HMACTokens) Issue(userID int64) (string, error) {
	payload, err := json.Marshal(hmacPayload{
		Sub: userID,
		Exp: t.now().Add(t.validity).Unix(),
	})
	if err != nil {
		return "", err
	}

	signingInput := b64.EncodeToString([]byte(tokenHeader)) + "." + b64.EncodeToString(payload)
	return signingInput + "." + b64.EncodeToString(t.sign(signingInput)), nil
}

// Verify checks the signature before looking at the payload.
func (t *HMACTokens) Verify(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, common.ErrMalformedToken
	}

	got, err := b64.DecodeString(parts[2])
	if err != nil {
		return nil, common.ErrInvalidSignature
	}
	if !hmac.Equal(got, t.sign(parts[0]+"."+parts[1])) {
		return nil, common.ErrInvalidSignature
	}

	raw, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload encoding", common.ErrInvalidToken)
	}
	var p hmacPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", common.ErrInvalidToken, err)
	}
	if p.Sub <= 0 || p.Exp == 0 {
		return nil, fmt.Errorf("%w: missing claims", common.ErrInvalidToken)
	}

	expiresAt := time.Unix(p.Exp, 0)
	if !t.now().Before(expiresAt) {
		return nil, common.ErrTokenExpired
	}

	return &Claims{UserID: p.Sub, ExpiresAt: expiresAt}, nil
}
