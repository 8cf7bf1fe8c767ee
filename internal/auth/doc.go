// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package auth provides the credential and session subsystem for sendlater.
//
// # Domain Types
//
// Domain types (Account, Session) should be created using their
// constructors:
//   - NewAccount - creates an Account with a validated email and password hash
//   - NewSession - creates a Session with a validated account and expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service coordinates the sign-up, login, logout, and session-validation
// flows over the AccountRepository, SessionRepository, PasswordHasher, and
// TokenSource collaborators. It is created with NewService, which validates
// its dependencies.
package auth
