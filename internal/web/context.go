// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web

import "context"

// Identity is the resolved account attached to a request by the session
// gate. It lives only for the request's processing lifetime.
type Identity struct {
	AccountID int64
}

type contextKey int

const identityKey contextKey = iota

// WithIdentity binds an identity to the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom extracts the identity attached by the session gate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
