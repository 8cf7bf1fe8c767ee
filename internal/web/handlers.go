// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package web

import (
	"encoding/json"
	"net/http"

	"github.com/sendlater/sendlater/internal/mail"
)

// credentialsBody is the sign-up and login request payload.
type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountBody is the account representation returned to clients. The
// password hash never leaves the service.
type accountBody struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// emailRequestBody carries a raw RFC 5322 message and its send date.
type emailRequestBody struct {
	Email string `json:"email"`
	Date  string `json:"date"`
}

// emailBody is the scheduled email representation returned to clients.
type emailBody struct {
	ID       int64  `json:"id"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	IsHTML   bool   `json:"is_html"`
	SendDate string `json:"send_date"`
	IsSent   bool   `json:"is_sent"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, malformed(err))
		return
	}

	account, err := s.auth.SignUp(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.SignupsTotal.Inc()
	}
	writeJSON(w, http.StatusCreated, accountBody{ID: account.ID, Email: account.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentialsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, malformed(err))
		return
	}

	account, token, err := s.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if s.metrics != nil {
			s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		writeError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	}
	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, accountBody{ID: account.ID, Email: account.Email})
}

// handleLogout deletes the session named by the raw cookie token. It does
// not require a valid session: a deleted or expired token logs out cleanly,
// and doing it twice is not an error.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, err := sessionToken(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if err := s.auth.Logout(r.Context(), token); err != nil {
		writeError(w, s.logger, err)
		return
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleAutoLogin returns the account behind the current session, letting a
// client restore its signed-in state from the cookie alone.
func (s *Server) handleAutoLogin(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, s.logger, ErrMissingCredential)
		return
	}

	account, err := s.auth.GetAccount(r.Context(), identity.AccountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, accountBody{ID: account.ID, Email: account.Email})
}

func (s *Server) handleCreateEmail(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, s.logger, ErrMissingCredential)
		return
	}

	var body emailRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, s.logger, malformed(err))
		return
	}

	email, err := s.mail.Schedule(r.Context(), identity.AccountID, body.Email, body.Date)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if s.metrics != nil {
		s.metrics.EmailsScheduled.Inc()
	}
	writeJSON(w, http.StatusCreated, toEmailBody(email))
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, s.logger, ErrMissingCredential)
		return
	}

	emails, err := s.mail.List(r.Context(), identity.AccountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	body := make([]emailBody, 0, len(emails))
	for _, email := range emails {
		body = append(body, toEmailBody(email))
	}
	writeJSON(w, http.StatusOK, body)
}

func toEmailBody(email *mail.Email) emailBody {
	return emailBody{
		ID:       email.ID,
		Subject:  email.Subject,
		Body:     email.Body,
		IsHTML:   email.IsHTML,
		SendDate: email.SendDate.Format(mail.SendDateLayout),
		IsSent:   email.IsSent,
	}
}
