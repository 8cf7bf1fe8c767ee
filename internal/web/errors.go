// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/sendlater/sendlater/internal/auth"
	"github.com/sendlater/sendlater/internal/mail"
	"github.com/sendlater/sendlater/pkg/errutil"
)

// ErrMissingCredential is returned when a request presents no session token.
var ErrMissingCredential = errors.New("missing credential")

// ErrMalformedRequest is returned for unparseable request input.
var ErrMalformedRequest = errors.New("malformed request")

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Wire error codes. These are the user-facing taxonomy; internal oops codes
// carry finer distinctions (e.g. expired vs unknown session) into the logs
// only.
const (
	codeMissingCredential = "missing_credential"
	codeInvalidSession    = "invalid_session"
	codeWrongCredentials  = "wrong_credentials"
	codeAccountExists     = "account_exists"
	codeMalformedRequest  = "malformed_request"
	codeInternal          = "internal_error"
)

// Oops codes from the auth layer that indicate bad client input rather than
// a system fault.
var clientInputCodes = map[string]bool{
	"ACCOUNT_INVALID_EMAIL": true,
	"AUTH_EMPTY_PASSWORD":   true,
}

// writeError translates the error taxonomy to a response. System faults
// (hashing, storage) are logged for operator visibility; user mistakes are
// not.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, ErrMissingCredential):
		writeJSON(w, http.StatusUnauthorized, errorResponse{codeMissingCredential, "no session token presented"})
	case errors.Is(err, auth.ErrInvalidSession):
		writeJSON(w, http.StatusUnauthorized, errorResponse{codeInvalidSession, "session token unknown or expired"})
	case errors.Is(err, auth.ErrWrongCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{codeWrongCredentials, "wrong email or password"})
	case errors.Is(err, auth.ErrAccountExists):
		writeJSON(w, http.StatusConflict, errorResponse{codeAccountExists, "email already registered"})
	case errors.Is(err, ErrMalformedRequest),
		errors.Is(err, mail.ErrMalformed),
		errors.Is(err, auth.ErrEmptyPassword),
		clientInputCodes[errutil.Code(err)]:
		writeJSON(w, http.StatusBadRequest, errorResponse{codeMalformedRequest, err.Error()})
	default:
		errutil.LogError(logger, "request failed", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{codeInternal, "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // response write error is acceptable, client may disconnect
	_ = json.NewEncoder(w).Encode(body)
}

// malformed wraps a decode/validation failure as ErrMalformedRequest.
func malformed(err error) error {
	return oops.Code("REQUEST_MALFORMED").Wrap(errors.Join(ErrMalformedRequest, err))
}
