// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrAccountExists is returned when sign-up hits an email that is already
// registered.
var ErrAccountExists = errors.New("account already exists")

// ErrWrongCredentials is returned for both an unknown email and a wrong
// password. The two cases are deliberately indistinguishable to callers so
// that login responses cannot be used to enumerate accounts.
var ErrWrongCredentials = errors.New("wrong credentials")

// ErrInvalidSession is returned when a session token is unknown or expired.
var ErrInvalidSession = errors.New("invalid session")
