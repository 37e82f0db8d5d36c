// Package cryptox holds the password hashing used by the account server.
// Passwords are never stored; only an argon2id key derived from the password
// and a per-account random salt.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/profiledash/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of freshly generated salts.
const SaltSize = 32

// DeriveKey stretches password with salt using argon2id
// (1 pass, 64 MiB, 4 lanes, 32-byte output).
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword generates a random salt and returns it with the derived key.
func HashPassword(password []byte) (salt []byte, hash []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return salt, DeriveKey(password, salt)
}

// VerifyPassword reports whether password matches the stored salt/hash pair.
// The comparison is constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	if len(salt) == 0 || len(hash) == 0 {
		return false
	}
	candidate := DeriveKey(password, salt)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
