package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fast keeps argon2 cheap for tests that only care about behaviour.
var fast = Params{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32}

func TestDeriveKey_DefaultParamsDeterministic(t *testing.T) {
	h := NewHasher(Params{})
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := h.DeriveKey(password, salt)
	key2 := h.DeriveKey(password, salt)
	require.True(t, bytes.Equal(key1, key2), "same inputs must give the same key")

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	assert.Equal(t, expectedHex, hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	h := NewHasher(fast)
	password := []byte("secret-password")

	key1 := h.DeriveKey(password, []byte("salt-1"))
	key2 := h.DeriveKey(password, []byte("salt-2"))
	assert.False(t, bytes.Equal(key1, key2), "different salts must give different keys")
}

func TestNewCredential_VerifyRoundTrip(t *testing.T) {
	h := NewHasher(fast)

	salt, verifier := h.NewCredential([]byte("admin123"))
	require.Len(t, salt, SaltSize)
	require.Len(t, verifier, 32)

	assert.True(t, h.Verify([]byte("admin123"), salt, verifier))
	assert.False(t, h.Verify([]byte("Admin123"), salt, verifier), "comparison is case-sensitive")
	assert.False(t, h.Verify([]byte("wrong"), salt, verifier))
	assert.False(t, h.Verify([]byte("admin123"), salt, nil))
}

func TestNewCredential_FreshSaltEachTime(t *testing.T) {
	h := NewHasher(fast)

	s1, v1 := h.NewCredential([]byte("pass1"))
	s2, v2 := h.NewCredential([]byte("pass1"))
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, v1, v2)
}

func TestNewHasher_FillsDefaults(t *testing.T) {
	h := NewHasher(Params{Time: 2})
	assert.Equal(t, uint32(2), h.params.Time)
	assert.Equal(t, DefaultParams.MemoryKiB, h.params.MemoryKiB)
	assert.Equal(t, DefaultParams.Threads, h.params.Threads)
	assert.Equal(t, DefaultParams.KeyLen, h.params.KeyLen)
}

func TestBurn_DoesNotPanic(t *testing.T) {
	NewHasher(fast).Burn([]byte("whatever"))
}
