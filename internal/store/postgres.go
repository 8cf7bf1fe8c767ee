// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package store provides PostgreSQL pool construction and schema migration.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Connection retry policy for startup. Request-path storage calls are never
// retried; this backoff only covers the initial pool ping while the database
// comes up.
const (
	connectBaseDelay  = 500 * time.Millisecond
	connectMaxRetries = 5
)

// NewPool opens a pgx connection pool and verifies connectivity with a
// bounded exponential backoff.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_POOL_FAILED").
			With("operation", "create pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectMaxRetries, retry.NewExponential(connectBaseDelay))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	}); err != nil {
		pool.Close()
		return nil, oops.Code("STORE_CONNECT_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
