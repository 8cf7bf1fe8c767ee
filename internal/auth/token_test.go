// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth_test

import (
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendlater/sendlater/internal/auth"
)

func TestTokenSource(t *testing.T) {
	t.Run("produces hex tokens of the right length", func(t *testing.T) {
		source, err := auth.NewTokenSource()
		require.NoError(t, err)

		token := source.Next()
		assert.Len(t, token, auth.TokenBytes*2)

		_, err = hex.DecodeString(token)
		assert.NoError(t, err)
	})

	t.Run("successive tokens differ", func(t *testing.T) {
		source, err := auth.NewTokenSource()
		require.NoError(t, err)

		seen := make(map[string]struct{})
		for range 1000 {
			token := source.Next()
			_, dup := seen[token]
			require.False(t, dup, "token repeated: %s", token)
			seen[token] = struct{}{}
		}
	})

	t.Run("concurrent callers get unique tokens", func(t *testing.T) {
		source, err := auth.NewTokenSource()
		require.NoError(t, err)

		const workers = 8
		const perWorker = 200

		var mu sync.Mutex
		seen := make(map[string]struct{})

		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					token := source.Next()
					mu.Lock()
					seen[token] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, workers*perWorker)
	})
}

func TestHashToken(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		hash1 := auth.HashToken("sometoken")
		hash2 := auth.HashToken("sometoken")
		assert.Equal(t, hash1, hash2)
	})

	t.Run("different tokens produce different hashes", func(t *testing.T) {
		assert.NotEqual(t, auth.HashToken("token-a"), auth.HashToken("token-b"))
	})

	t.Run("produces hex SHA-256", func(t *testing.T) {
		hash := auth.HashToken("sometoken")
		assert.Len(t, hash, 64)
		_, err := hex.DecodeString(hash)
		assert.NoError(t, err)
	})
}

func TestVerifyToken(t *testing.T) {
	t.Run("matching token verifies", func(t *testing.T) {
		hash := auth.HashToken("sometoken")
		ok, err := auth.VerifyToken("sometoken", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatched token fails without error", func(t *testing.T) {
		hash := auth.HashToken("sometoken")
		ok, err := auth.VerifyToken("othertoken", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty token returns error", func(t *testing.T) {
		_, err := auth.VerifyToken("", auth.HashToken("sometoken"))
		assert.Error(t, err)
	})

	t.Run("empty hash returns error", func(t *testing.T) {
		_, err := auth.VerifyToken("sometoken", "")
		assert.Error(t, err)
	})
}
