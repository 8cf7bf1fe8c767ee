// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sendlater/sendlater/internal/web"
)

func TestIdentityContext(t *testing.T) {
	t.Run("round-trips through the context", func(t *testing.T) {
		ctx := web.WithIdentity(context.Background(), web.Identity{AccountID: 7})

		id, ok := web.IdentityFrom(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(7), id.AccountID)
	})

	t.Run("absent identity reports false", func(t *testing.T) {
		_, ok := web.IdentityFrom(context.Background())
		assert.False(t, ok)
	})
}
