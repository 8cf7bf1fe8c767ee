// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth

import (
	cryptorand "crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	mathrand "math/rand/v2"
	"sync"

	"github.com/samber/oops"
)

// TokenBytes is the size of a session token before encoding.
// 16 bytes = 128 bits = 32 hex chars.
const TokenBytes = 16

// TokenSource produces unpredictable session tokens from a ChaCha8 generator
// seeded once from the operating system at construction. The generator is
// shared mutable state; the mutex is held only across the byte fill, never
// across encoding or any store write.
type TokenSource struct {
	mu  sync.Mutex
	rng *mathrand.ChaCha8
}

// NewTokenSource creates a TokenSource seeded from crypto/rand.
func NewTokenSource() (*TokenSource, error) {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		return nil, oops.Code("TOKEN_SEED_FAILED").
			With("operation", "crypto/rand.Read").
			Wrap(err)
	}
	return &TokenSource{rng: mathrand.NewChaCha8(seed)}, nil
}

// Next returns a fresh hex-encoded session token.
func (t *TokenSource) Next() string {
	var raw [TokenBytes]byte

	t.mu.Lock()
	// ChaCha8.Read never returns an error.
	_, _ = t.rng.Read(raw[:])
	t.mu.Unlock()

	return hex.EncodeToString(raw[:])
}

// HashToken computes the SHA-256 hash of a session token. Only the hash is
// stored in the database; the plaintext token travels in the cookie.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
// Returns (true, nil) on match, (false, nil) on mismatch, or (false, error)
// on invalid input.
func VerifyToken(token, hash string) (bool, error) {
	if token == "" {
		return false, oops.Code("TOKEN_EMPTY").Errorf("session token cannot be empty")
	}
	if hash == "" {
		return false, oops.Code("TOKEN_HASH_EMPTY").Errorf("stored hash cannot be empty")
	}
	computed := HashToken(token)
	// Both are hex-encoded SHA256 hashes (64 chars), use constant-time compare
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1, nil
}
