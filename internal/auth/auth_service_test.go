// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sendlater/sendlater/internal/auth"
	"github.com/sendlater/sendlater/internal/auth/mocks"
	"github.com/sendlater/sendlater/pkg/errutil"
)

func newTestService(t *testing.T, accounts auth.AccountRepository, sessions auth.SessionRepository, hasher auth.PasswordHasher) *auth.Service {
	t.Helper()
	tokens, err := auth.NewTokenSource()
	require.NoError(t, err)
	svc, err := auth.NewService(accounts, sessions, hasher, tokens)
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	tokens, err := auth.NewTokenSource()
	require.NoError(t, err)
	accounts := &mocks.MockAccountRepository{}
	sessions := &mocks.MockSessionRepository{}
	hasher := &mocks.MockPasswordHasher{}

	t.Run("requires all dependencies", func(t *testing.T) {
		_, err := auth.NewService(nil, sessions, hasher, tokens)
		assert.Error(t, err)

		_, err = auth.NewService(accounts, nil, hasher, tokens)
		assert.Error(t, err)

		_, err = auth.NewService(accounts, sessions, nil, tokens)
		assert.Error(t, err)

		_, err = auth.NewService(accounts, sessions, hasher, nil)
		assert.Error(t, err)

		_, err = auth.NewServiceWithLogger(accounts, sessions, hasher, tokens, nil)
		assert.Error(t, err)
	})

	t.Run("succeeds with all dependencies", func(t *testing.T) {
		svc, err := auth.NewService(accounts, sessions, hasher, tokens)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with hashed password", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), hasher)

		hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *auth.Account) bool {
			return a.Email == "alice@example.com" && a.PasswordHash == "$argon2id$hashed"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*auth.Account).ID = 7
		}).Return(nil)

		account, err := svc.SignUp(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		assert.Equal(t, "alice@example.com", account.Email)
	})

	t.Run("rejects invalid email before hashing", func(t *testing.T) {
		svc := newTestService(t,
			mocks.NewMockAccountRepository(t),
			mocks.NewMockSessionRepository(t),
			mocks.NewMockPasswordHasher(t))

		_, err := svc.SignUp(ctx, "not-an-email", "secret123")
		assert.Error(t, err)
	})

	t.Run("propagates empty password error", func(t *testing.T) {
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t,
			mocks.NewMockAccountRepository(t),
			mocks.NewMockSessionRepository(t),
			hasher)

		hasher.On("Hash", "").Return("", auth.ErrEmptyPassword)

		_, err := svc.SignUp(ctx, "alice@example.com", "")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("duplicate email surfaces as ErrAccountExists", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), hasher)

		hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		accounts.On("Create", mock.Anything, mock.Anything).Return(auth.ErrAccountExists)

		_, err := svc.SignUp(ctx, "taken@example.com", "secret123")
		assert.ErrorIs(t, err, auth.ErrAccountExists)
		errutil.AssertErrorCode(t, err, "AUTH_ACCOUNT_EXISTS")
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), hasher)

		hasher.On("Hash", "secret123").Return("$argon2id$hashed", nil)
		accounts.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := svc.SignUp(ctx, "alice@example.com", "secret123")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_SIGNUP_FAILED")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	storedAccount := &auth.Account{
		ID:           7,
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$stored",
		CreatedAt:    time.Now(),
	}

	t.Run("valid credentials create a session", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		sessions := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, sessions, hasher)

		accounts.On("GetByEmail", mock.Anything, "alice@example.com").Return(storedAccount, nil)
		hasher.On("Verify", "secret123", "$argon2id$stored").Return(true, nil)

		var persisted *auth.Session
		sessions.On("Upsert", mock.Anything, mock.MatchedBy(func(s *auth.Session) bool {
			return s.AccountID == 7
		})).Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*auth.Session)
		}).Return(nil)

		account, token, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		assert.Len(t, token, auth.TokenBytes*2)

		// Only the hash of the token is persisted.
		require.NotNil(t, persisted)
		assert.Equal(t, auth.HashToken(token), persisted.TokenHash)
		assert.WithinDuration(t, time.Now().Add(auth.SessionTTL), persisted.ExpiresAt, 5*time.Second)
	})

	t.Run("wrong password yields ErrWrongCredentials", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), hasher)

		accounts.On("GetByEmail", mock.Anything, "alice@example.com").Return(storedAccount, nil)
		hasher.On("Verify", "wrongpass", "$argon2id$stored").Return(false, nil)

		_, _, err := svc.Login(ctx, "alice@example.com", "wrongpass")
		assert.ErrorIs(t, err, auth.ErrWrongCredentials)
	})

	t.Run("unknown email yields the same ErrWrongCredentials", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), hasher)

		accounts.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, auth.ErrNotFound)
		// The dummy hash is still verified to keep response time flat.
		hasher.On("Verify", "whatever", mock.Anything).Return(false, nil)

		_, _, err := svc.Login(ctx, "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, auth.ErrWrongCredentials)
	})

	t.Run("wraps lookup failures", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), mocks.NewMockPasswordHasher(t))

		accounts.On("GetByEmail", mock.Anything, "alice@example.com").Return(nil, errors.New("connection refused"))

		_, _, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrWrongCredentials)
		errutil.AssertErrorCode(t, err, "AUTH_LOGIN_FAILED")
	})

	t.Run("wraps session persistence failures", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		sessions := mocks.NewMockSessionRepository(t)
		hasher := mocks.NewMockPasswordHasher(t)
		svc := newTestService(t, accounts, sessions, hasher)

		accounts.On("GetByEmail", mock.Anything, "alice@example.com").Return(storedAccount, nil)
		hasher.On("Verify", "secret123", "$argon2id$stored").Return(true, nil)
		sessions.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, _, err := svc.Login(ctx, "alice@example.com", "secret123")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_SESSION_UPSERT_FAILED")
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session by token hash", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		sessions.On("Delete", mock.Anything, auth.HashToken("sometoken")).Return(nil)

		assert.NoError(t, svc.Logout(ctx, "sometoken"))
	})

	t.Run("absent session is not an error", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		sessions.On("Delete", mock.Anything, auth.HashToken("sometoken")).Return(auth.ErrNotFound)

		assert.NoError(t, svc.Logout(ctx, "sometoken"))
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		svc := newTestService(t,
			mocks.NewMockAccountRepository(t),
			mocks.NewMockSessionRepository(t),
			mocks.NewMockPasswordHasher(t))

		assert.Error(t, svc.Logout(ctx, ""))
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		sessions.On("Delete", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		err := svc.Logout(ctx, "sometoken")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "AUTH_LOGOUT_FAILED")
	})
}

func TestValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a live session", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		live := &auth.Session{
			AccountID: 7,
			TokenHash: auth.HashToken("sometoken"),
			ExpiresAt: time.Now().Add(30 * time.Minute),
			CreatedAt: time.Now(),
		}
		sessions.On("GetByTokenHash", mock.Anything, auth.HashToken("sometoken")).Return(live, nil)

		session, err := svc.ValidateSession(ctx, "sometoken")
		require.NoError(t, err)
		assert.Equal(t, int64(7), session.AccountID)
	})

	t.Run("empty token yields ErrInvalidSession", func(t *testing.T) {
		svc := newTestService(t,
			mocks.NewMockAccountRepository(t),
			mocks.NewMockSessionRepository(t),
			mocks.NewMockPasswordHasher(t))

		_, err := svc.ValidateSession(ctx, "")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
	})

	t.Run("unknown token yields ErrInvalidSession", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		sessions.On("GetByTokenHash", mock.Anything, mock.Anything).Return(nil, auth.ErrNotFound)

		_, err := svc.ValidateSession(ctx, "bogustoken")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
		errutil.AssertErrorCode(t, err, "SESSION_UNKNOWN")
	})

	t.Run("expired session yields ErrInvalidSession and is reaped", func(t *testing.T) {
		sessions := mocks.NewMockSessionRepository(t)
		svc := newTestService(t, mocks.NewMockAccountRepository(t), sessions, mocks.NewMockPasswordHasher(t))

		dead := &auth.Session{
			AccountID: 7,
			TokenHash: auth.HashToken("sometoken"),
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-2 * time.Hour),
		}
		sessions.On("GetByTokenHash", mock.Anything, dead.TokenHash).Return(dead, nil)
		sessions.On("Delete", mock.Anything, dead.TokenHash).Return(nil)

		_, err := svc.ValidateSession(ctx, "sometoken")
		assert.ErrorIs(t, err, auth.ErrInvalidSession)
		errutil.AssertErrorCode(t, err, "SESSION_EXPIRED")
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the account", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), mocks.NewMockPasswordHasher(t))

		accounts.On("GetByID", mock.Anything, int64(7)).Return(&auth.Account{ID: 7, Email: "alice@example.com"}, nil)

		account, err := svc.GetAccount(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", account.Email)
	})

	t.Run("passes through ErrNotFound", func(t *testing.T) {
		accounts := mocks.NewMockAccountRepository(t)
		svc := newTestService(t, accounts, mocks.NewMockSessionRepository(t), mocks.NewMockPasswordHasher(t))

		accounts.On("GetByID", mock.Anything, int64(99)).Return(nil, auth.ErrNotFound)

		_, err := svc.GetAccount(ctx, 99)
		assert.ErrorIs(t, err, auth.ErrNotFound)
	})
}
