package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_Format(t *testing.T) {
	rec, err := HashPassword("pw1")
	require.NoError(t, err)
	assert.Len(t, rec, RecordLen)
	assert.Equal(t, strings.ToLower(rec), rec, "record must be lowercase hex")
}

func TestHashPassword_FreshSalt(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword("same", a))
	assert.True(t, VerifyPassword("same", b))
}

func TestVerifyPassword(t *testing.T) {
	rec, err := HashPassword("correct horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		record   string
		want     bool
	}{
		{"match", "correct horse", rec, true},
		{"wrong password", "battery staple", rec, false},
		{"empty password", "", rec, false},
		{"empty record", "correct horse", "", false},
		{"truncated record", "correct horse", rec[:RecordLen-1], false},
		{"non hex salt", "correct horse", strings.Repeat("z", 32) + rec[32:], false},
		{"tampered digest", "correct horse", rec[:RecordLen-1] + flip(rec[RecordLen-1]), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.password, tt.record))
		})
	}
}

func TestVerifyPassword_EmptyPasswordRoundTrip(t *testing.T) {
	rec, err := HashPassword("")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("", rec))
}

func flip(c byte) string {
	if c == '0' {
		return "1"
	}
	return "0"
}
