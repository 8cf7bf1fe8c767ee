// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionCookie is the cookie attribute carrying the session token.
const SessionCookie = "session_token"

// CookieMaxAge is the advertised cookie lifetime in seconds. It matches the
// server-enforced auth.SessionTTL.
const CookieMaxAge = 3600

// sessionToken extracts the raw session token from the request's cookie.
// An absent or empty cookie is ErrMissingCredential.
func sessionToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingCredential
	}
	return cookie.Value, nil
}

// requireSession is the authentication gate: extract the token, resolve it,
// attach the identity, or reject before the handler runs. Failures are
// terminal; authentication is never retried.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := sessionToken(r)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}

		session, err := s.auth.ValidateSession(r.Context(), token)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}

		ctx := WithIdentity(r.Context(), Identity{AccountID: session.AccountID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs each request with a fresh request ID and records the
// request counter.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := ulid.Make().String()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := r.Method + " " + r.URL.Path
		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		}
		s.logger.InfoContext(r.Context(), "request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// setSessionCookie emits the credential carrier on login.
func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the credential carrier on logout.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
