// Package cryptox implements password storage for the credential store.
//
// Passwords are stored as "argon2id$<salt-hex>$<key-hex>". Values without
// the argon2id$ prefix are legacy plain-text credentials written by older
// deployments; they are still accepted by VerifyPassword.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	hashPrefix = "argon2id$"
	saltSize   = 16
)

var errSaltGeneration = errors.New("salt generation failed")

// DeriveKey stretches password with salt using argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the encoded argon2id hash of password with a fresh
// random salt.
func HashPassword(password string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	if salt == nil {
		return "", errSaltGeneration
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := DeriveKey(pw, salt)
	return hashPrefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

// IsHashed reports whether stored is in the argon2id encoding.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, hashPrefix)
}

// VerifyPassword reports whether candidate matches stored. Comparison is
// constant time for both encodings.
func VerifyPassword(stored, candidate string) bool {
	if !IsHashed(stored) {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
	}

	parts := strings.Split(strings.TrimPrefix(stored, hashPrefix), "$")
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	pw := []byte(candidate)
	defer common.WipeByteArray(pw)

	got := DeriveKey(pw, salt)
	return subtle.ConstantTimeCompare(want, got) == 1
}
