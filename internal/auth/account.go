// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth

import (
	"context"
	"net/mail"
	"time"

	"github.com/samber/oops"
)

// MaxEmailLength bounds stored email addresses.
const MaxEmailLength = 254

// Account represents a registered user account. The password hash is the
// opaque string produced by a PasswordHasher; the raw password is never
// stored. Accounts are immutable after creation in this subsystem.
type Account struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewAccount creates a validated Account ready for insertion. The ID is
// assigned by the store on create.
func NewAccount(email, passwordHash string) (*Account, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("ACCOUNT_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &Account{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}, nil
}

// ValidateEmail validates an email address. Addresses are compared
// case-sensitively; uniqueness is enforced by the store.
func ValidateEmail(email string) error {
	if email == "" {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email cannot be empty")
	}
	if len(email) > MaxEmailLength {
		return oops.Code("ACCOUNT_INVALID_EMAIL").
			With("max", MaxEmailLength).
			Errorf("email must be at most %d characters", MaxEmailLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Wrap(err)
	}
	// Reject display-name forms like "Bob <bob@example.com>"
	if addr.Address != email {
		return oops.Code("ACCOUNT_INVALID_EMAIL").Errorf("email must be a bare address")
	}
	return nil
}

// AccountRepository manages account persistence.
//
// Implementations must surface a duplicate email as ErrAccountExists,
// distinct from any other storage failure, so callers can return the right
// user-facing error.
type AccountRepository interface {
	// Create stores a new account and assigns its ID.
	Create(ctx context.Context, account *Account) error

	// GetByEmail retrieves an account by email (case-sensitive).
	// Returns ErrNotFound if no account has the given email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id int64) (*Account, error)
}
