// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// SessionTTL is the session lifetime. It is enforced server-side on resolve
// and mirrored by the cookie's advertised Max-Age.
const SessionTTL = time.Hour

// Session represents a logged-in session. The database stores only the
// SHA-256 hash of the token; at most one live session exists per account
// (login replaces any prior session).
type Session struct {
	AccountID int64
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewSession creates a validated Session instance.
func NewSession(accountID int64, tokenHash string, expiresAt time.Time) (*Session, error) {
	if accountID <= 0 {
		return nil, oops.Code("SESSION_INVALID_ACCOUNT").Errorf("account ID must be positive")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &Session{
		AccountID: accountID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Upsert stores the session, replacing any existing session for the
	// same account.
	Upsert(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	// Returns ErrNotFound if no session has the given hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Delete removes a session by token hash.
	// Returns ErrNotFound if no session has the given hash.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteExpired removes all expired sessions and returns the count of
	// deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
