package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

// backends runs the same property checks against every Tokens implementation.
func backends(secret string, clock *fakeClock) map[string]Tokens {
	return map[string]Tokens{
		"hmac": NewHMACTokens([]byte(secret), 30*time.Minute).WithClock(clock.Now),
		"jwt":  NewJWTTokens([]byte(secret), 30*time.Minute).WithClock(clock.Now),
	}
}

func TestTokens_IssueVerifyRoundTrip(t *testing.T) {
	clock := newClock()
	for name, tokens := range backends("super-secret", clock) {
		t.Run(name, func(t *testing.T) {
			for _, uid := range []int64{1, 42, 1 << 40} {
				tok, err := tokens.Issue(uid)
				require.NoError(t, err)
				assert.Len(t, strings.Split(tok, "."), 3)

				claims, err := tokens.Verify(tok)
				require.NoError(t, err)
				assert.Equal(t, uid, claims.UserID)
				assert.Equal(t, clock.Now().Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
			}
		})
	}
}

func TestTokens_Expired(t *testing.T) {
	for name := range backends("s", newClock()) {
		t.Run(name, func(t *testing.T) {
			clock := newClock()
			tokens := backends("s", clock)[name]

			tok, err := tokens.Issue(7)
			require.NoError(t, err)

			clock.Advance(29 * time.Minute)
			_, err = tokens.Verify(tok)
			require.NoError(t, err, "still valid before expiry")

			clock.Advance(2 * time.Minute)
			_, err = tokens.Verify(tok)
			assert.ErrorIs(t, err, common.ErrTokenExpired)
		})
	}
}

func TestTokens_WrongSecret(t *testing.T) {
	clock := newClock()
	right := backends("right-secret", clock)
	wrong := backends("wrong-secret", clock)
	for name := range right {
		t.Run(name, func(t *testing.T) {
			tok, err := right[name].Issue(3)
			require.NoError(t, err)
			_, err = wrong[name].Verify(tok)
			assert.ErrorIs(t, err, common.ErrInvalidSignature)
		})
	}
}

func TestTokens_SignatureBitFlip(t *testing.T) {
	clock := newClock()
	for name, tokens := range backends("k", clock) {
		t.Run(name, func(t *testing.T) {
			tok, err := tokens.Issue(9)
			require.NoError(t, err)
			parts := strings.Split(tok, ".")
			sig, err := base64.RawURLEncoding.DecodeString(parts[2])
			require.NoError(t, err)

			for bit := 0; bit < len(sig)*8; bit++ {
				flipped := append([]byte(nil), sig...)
				flipped[bit/8] ^= 1 << (bit % 8)
				forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

				_, err := tokens.Verify(forged)
				require.ErrorIs(t, err, common.ErrInvalidSignature, "bit %d", bit)
			}
		})
	}
}

func TestTokens_Malformed(t *testing.T) {
	for name, tokens := range backends("k", newClock()) {
		t.Run(name, func(t *testing.T) {
			for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
				_, err := tokens.Verify(tok)
				assert.True(t, common.IsTokenError(err), "%q: %v", tok, err)
			}
		})
	}
}

func TestHMACTokens_MalformedPartCount(t *testing.T) {
	tokens := NewHMACTokens([]byte("k"), time.Minute)
	for _, tok := range []string{"", "abc", "a.b", "a.b.c.d"} {
		_, err := tokens.Verify(tok)
		assert.ErrorIs(t, err, common.ErrMalformedToken, tok)
	}
}

func TestHMACTokens_PayloadTamperingRejectedBySignature(t *testing.T) {
	clock := newClock()
	tokens := NewHMACTokens([]byte("k"), time.Minute).WithClock(clock.Now)

	tok, err := tokens.Issue(1)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")

	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":2,"exp":99999999999}`))
	_, err = tokens.Verify(parts[0] + "." + forgedPayload + "." + parts[2])
	assert.ErrorIs(t, err, common.ErrInvalidSignature)
}

func TestHMACTokens_SignedGarbagePayloadIsInvalid(t *testing.T) {
	tokens := NewHMACTokens([]byte("k"), time.Minute)

	for _, payload := range []string{"not json", `{"sub":"x"}`, `{"exp":1}`} {
		input := base64.RawURLEncoding.EncodeToString([]byte(tokenHeader)) + "." +
			base64.RawURLEncoding.EncodeToString([]byte(payload))
		tok := input + "." + base64.RawURLEncoding.EncodeToString(tokens.sign(input))

		_, err := tokens.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidToken, payload)
	}
}

func TestHMACTokens_HeaderIsFixed(t *testing.T) {
	tok, err := NewHMACTokens([]byte("k"), time.Minute).Issue(5)
	require.NoError(t, err)
	header, err := base64.RawURLEncoding.DecodeString(strings.Split(tok, ".")[0])
	require.NoError(t, err)
	assert.JSONEq(t, tokenHeader, string(header))
	assert.NotContains(t, tok, "=", "no padding")
}

func TestNewTokens_DefaultValidity(t *testing.T) {
	assert.Equal(t, DefaultValidity, NewHMACTokens([]byte("k"), 0).validity)
	assert.Equal(t, DefaultValidity, NewJWTTokens([]byte("k"), -time.Second).validity)
}
