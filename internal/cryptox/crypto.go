// Package cryptox implements the salted password hashing used by the
// credential store.
//
// A hash record is the hex-encoded salt followed by the hex-encoded
// SHA-256 digest of salt||password. Salt length and digest algorithm are
// fixed; changing either invalidates every stored record.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/dmitrijs2005/expensekeeper/internal/common"
)

const (
	// SaltSize is the number of random salt bytes.
	SaltSize = 16

	saltHexLen   = SaltSize * 2
	digestHexLen = sha256.Size * 2

	// RecordLen is the length of a complete hash record.
	RecordLen = saltHexLen + digestHexLen
)

func digest(saltHex, password string) string {
	sum := sha256.Sum256([]byte(saltHex + password))
	return hex.EncodeToString(sum[:])
}

// HashPassword returns a fresh salted hash record for password.
func HashPassword(password string) (string, error) {
	saltHex, err := common.MakeRandHexString(SaltSize)
	if err != nil {
		return "", err
	}
	return saltHex + digest(saltHex, password), nil
}

// VerifyPassword reports whether password matches record. Malformed records
// yield false.
func VerifyPassword(password, record string) bool {
	if len(record) != RecordLen {
		return false
	}
	saltHex, stored := record[:saltHexLen], record[saltHexLen:]
	if _, err := hex.DecodeString(saltHex); err != nil {
		return false
	}
	candidate := digest(saltHex, password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(stored)) == 1
}
