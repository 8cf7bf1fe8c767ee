// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service provides authentication operations.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	hasher   PasswordHasher
	tokens   *TokenSource
	logger   *slog.Logger
}

// NewService creates a new Service with the default logger.
func NewService(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher, tokens *TokenSource) (*Service, error) {
	return NewServiceWithLogger(accounts, sessions, hasher, tokens, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(accounts AccountRepository, sessions SessionRepository, hasher PasswordHasher, tokens *TokenSource, logger *slog.Logger) (*Service, error) {
	if accounts == nil {
		return nil, oops.Errorf("accounts repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("sessions repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token source is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is used when an account doesn't exist to prevent timing
// attacks. We still run password verification to make response time
// consistent. This is NOT a real credential - it's a fake hash that will
// never match any password.
//
//nolint:gosec // G101: This is an intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// SignUp registers a new account. The password is hashed before storage is
// touched; a duplicate email surfaces as ErrAccountExists.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Account, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return nil, err
		}
		return nil, oops.Code("AUTH_HASHING_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account, err := NewAccount(email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, oops.Code("AUTH_ACCOUNT_EXISTS").
				Wrap(err)
		}
		return nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "create account").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID)
	return account, nil
}

// Login authenticates an account and creates a session, replacing any prior
// session for the same account. Returns the account, the plaintext token,
// and any error. Unknown email and wrong password produce the same
// ErrWrongCredentials; the distinction is logged internally only.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	// Determine which hash to verify against (real or dummy for timing
	// attack prevention).
	targetHash := dummyPasswordHash
	accountExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	// Always verify the password so response time stays consistent.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// For dummy hash verification errors, just treat as invalid
		if !accountExists {
			s.logger.DebugContext(ctx, "login rejected", "reason", "unknown email")
			return nil, "", oops.Code("AUTH_WRONG_CREDENTIALS").Wrap(ErrWrongCredentials)
		}
		return nil, "", oops.Code("AUTH_HASHING_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !accountExists || !valid {
		if accountExists {
			s.logger.DebugContext(ctx, "login rejected", "reason", "wrong password", "account_id", account.ID)
		} else {
			s.logger.DebugContext(ctx, "login rejected", "reason", "unknown email")
		}
		return nil, "", oops.Code("AUTH_WRONG_CREDENTIALS").Wrap(ErrWrongCredentials)
	}

	token := s.tokens.Next()

	session, err := NewSession(account.ID, HashToken(token), time.Now().Add(SessionTTL))
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}

	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_SESSION_UPSERT_FAILED").
			With("operation", "persist session").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "login succeeded", "account_id", account.ID)
	return account, token, nil
}

// Logout deletes the session for the given plaintext token. Deleting a
// token with no session is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return oops.Code("SESSION_TOKEN_EMPTY").Errorf("session token cannot be empty")
	}

	err := s.sessions.Delete(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.DebugContext(ctx, "logout for absent session")
			return nil
		}
		return oops.Code("AUTH_LOGOUT_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// ValidateSession resolves a plaintext token to its session. Unknown and
// expired tokens both yield ErrInvalidSession, with distinct codes for
// operator logs.
func (s *Service) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, oops.Code("SESSION_TOKEN_EMPTY").Wrap(ErrInvalidSession)
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("SESSION_UNKNOWN").Wrap(ErrInvalidSession)
		}
		return nil, oops.Code("SESSION_VALIDATE_FAILED").
			With("operation", "get session by token hash").
			Wrap(err)
	}

	if session.IsExpired() {
		// Reap the dead row; validation fails regardless.
		_ = s.sessions.Delete(ctx, session.TokenHash) //nolint:errcheck // Best effort
		s.logger.DebugContext(ctx, "session expired", "account_id", session.AccountID)
		return nil, oops.Code("SESSION_EXPIRED").Wrap(ErrInvalidSession)
	}

	return session, nil
}

// GetAccount retrieves an account by ID for an authenticated identity.
func (s *Service) GetAccount(ctx context.Context, id int64) (*Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, oops.Code("AUTH_GET_ACCOUNT_FAILED").
			With("operation", "get account by id").
			With("account_id", id).
			Wrap(err)
	}
	return account, nil
}
