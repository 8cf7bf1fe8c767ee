// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sendlater/sendlater/internal/auth"
)

func TestNewSession(t *testing.T) {
	expiry := time.Now().Add(auth.SessionTTL)

	t.Run("creates session with valid input", func(t *testing.T) {
		session, err := auth.NewSession(42, auth.HashToken("sometoken"), expiry)
		require.NoError(t, err)

		assert.Equal(t, int64(42), session.AccountID)
		assert.Equal(t, auth.HashToken("sometoken"), session.TokenHash)
		assert.Equal(t, expiry, session.ExpiresAt)
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("rejects non-positive account ID", func(t *testing.T) {
		_, err := auth.NewSession(0, auth.HashToken("sometoken"), expiry)
		assert.Error(t, err)

		_, err = auth.NewSession(-1, auth.HashToken("sometoken"), expiry)
		assert.Error(t, err)
	})

	t.Run("rejects empty token hash", func(t *testing.T) {
		_, err := auth.NewSession(42, "", expiry)
		assert.Error(t, err)
	})

	t.Run("rejects zero expiry", func(t *testing.T) {
		_, err := auth.NewSession(42, auth.HashToken("sometoken"), time.Time{})
		assert.Error(t, err)
	})
}

func TestSessionExpiry(t *testing.T) {
	t.Run("fresh session is not expired", func(t *testing.T) {
		session, err := auth.NewSession(1, auth.HashToken("t"), time.Now().Add(auth.SessionTTL))
		require.NoError(t, err)
		assert.False(t, session.IsExpired())
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		session, err := auth.NewSession(1, auth.HashToken("t"), time.Now().Add(-time.Minute))
		require.NoError(t, err)
		assert.True(t, session.IsExpired())
	})

	t.Run("IsExpiredAt compares against the given instant", func(t *testing.T) {
		expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		session, err := auth.NewSession(1, auth.HashToken("t"), expiry)
		require.NoError(t, err)

		assert.False(t, session.IsExpiredAt(expiry.Add(-time.Second)))
		assert.False(t, session.IsExpiredAt(expiry))
		assert.True(t, session.IsExpiredAt(expiry.Add(time.Second)))
	})
}
