// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package authtest provides in-memory repositories for auth tests.
package authtest

import (
	"context"
	"sync"

	"github.com/sendlater/sendlater/internal/auth"
)

// AccountRepository is an in-memory auth.AccountRepository.
type AccountRepository struct {
	mu      sync.Mutex
	nextID  int64
	byID    map[int64]auth.Account
	byEmail map[string]int64
}

// NewAccountRepository creates an empty in-memory account repository.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		byID:    make(map[int64]auth.Account),
		byEmail: make(map[string]int64),
	}
}

// Create stores the account, enforcing email uniqueness like the database
// unique index would.
func (r *AccountRepository) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[account.Email]; ok {
		return auth.ErrAccountExists
	}
	r.nextID++
	account.ID = r.nextID
	r.byID[account.ID] = *account
	r.byEmail[account.Email] = account.ID
	return nil
}

// GetByEmail retrieves an account by email.
func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	account := r.byID[id]
	return &account, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(_ context.Context, id int64) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &account, nil
}

// SessionRepository is an in-memory auth.SessionRepository.
type SessionRepository struct {
	mu        sync.Mutex
	byHash    map[string]auth.Session
	byAccount map[int64]string
}

// NewSessionRepository creates an empty in-memory session repository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		byHash:    make(map[string]auth.Session),
		byAccount: make(map[int64]string),
	}
}

// Upsert stores the session, replacing any prior session for the account.
func (r *SessionRepository) Upsert(_ context.Context, session *auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.byAccount[session.AccountID]; ok {
		delete(r.byHash, prior)
	}
	r.byHash[session.TokenHash] = *session
	r.byAccount[session.AccountID] = session.TokenHash
	return nil
}

// GetByTokenHash retrieves a session by token hash.
func (r *SessionRepository) GetByTokenHash(_ context.Context, tokenHash string) (*auth.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byHash[tokenHash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &session, nil
}

// Delete removes a session by token hash.
func (r *SessionRepository) Delete(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byHash[tokenHash]
	if !ok {
		return auth.ErrNotFound
	}
	delete(r.byHash, tokenHash)
	delete(r.byAccount, session.AccountID)
	return nil
}

// DeleteExpired removes expired sessions.
func (r *SessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for hash, session := range r.byHash {
		if session.IsExpired() {
			delete(r.byHash, hash)
			delete(r.byAccount, session.AccountID)
			deleted++
		}
	}
	return deleted, nil
}
