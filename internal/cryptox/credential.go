// Package cryptox derives and verifies credential material. Credentials are
// never stored: a record keeps a random salt and a verifier, the SHA-256 of
// the argon2id key derived from (credential, salt).
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/tadpole/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of generated salts, in bytes.
const SaltSize = 32

// Params are the argon2id cost parameters.
type Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
}

// DefaultParams is the production cost: one pass over 64 MiB.
var DefaultParams = Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4, KeyLen: 32}

// Hasher turns credentials into (salt, verifier) pairs and checks them.
type Hasher struct {
	params Params
}

// NewHasher returns a Hasher using p. Zero-valued fields fall back to DefaultParams.
func NewHasher(p Params) *Hasher {
	if p.Time == 0 {
		p.Time = DefaultParams.Time
	}
	if p.MemoryKiB == 0 {
		p.MemoryKiB = DefaultParams.MemoryKiB
	}
	if p.Threads == 0 {
		p.Threads = DefaultParams.Threads
	}
	if p.KeyLen == 0 {
		p.KeyLen = DefaultParams.KeyLen
	}
	return &Hasher{params: p}
}

// DeriveKey derives the argon2id key for credential and salt.
func (h *Hasher) DeriveKey(credential, salt []byte) []byte {
	return argon2.IDKey(credential, salt, h.params.Time, h.params.MemoryKiB, h.params.Threads, h.params.KeyLen)
}

// MakeVerifier hashes a derived key into the value stored with the record.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewCredential generates a fresh salt and the matching verifier.
func (h *Hasher) NewCredential(credential []byte) (salt, verifier []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	key := h.DeriveKey(credential, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key)
}

// Verify reports whether credential matches the stored salt and verifier.
// The comparison is constant-time.
func (h *Hasher) Verify(credential, salt, verifier []byte) bool {
	key := h.DeriveKey(credential, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}

// Burn performs a derivation against a random salt and discards it, so that
// lookups of unknown login names cost the same as real verifications.
func (h *Hasher) Burn(credential []byte) {
	key := h.DeriveKey(credential, common.GenerateRandByteArray(SaltSize))
	common.WipeByteArray(key)
}
