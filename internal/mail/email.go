// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package mail provides the scheduled-email domain for sendlater.
package mail

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
)

// ErrMalformed is returned when a submitted message or send date cannot be
// parsed. It maps to a client error, never a system fault.
var ErrMalformed = errors.New("malformed email")

// SendDateLayout is the wire format for scheduling dates.
const SendDateLayout = "2006-01-02"

// Email is a scheduled email owned by an account. IsSent is flipped by the
// delivery pipeline, which lives outside this service; IsHidden soft-deletes
// a row from listings.
type Email struct {
	ID       int64
	OwnerID  int64
	Subject  string
	Body     string
	IsHTML   bool
	SendDate time.Time
	IsSent   bool
	IsHidden bool
}

// NewEmail creates a validated Email ready for insertion. The ID is assigned
// by the store on create.
func NewEmail(ownerID int64, subject, body string, isHTML bool, sendDate time.Time) (*Email, error) {
	if ownerID <= 0 {
		return nil, oops.Code("EMAIL_INVALID_OWNER").Errorf("owner ID must be positive")
	}
	if subject == "" {
		return nil, oops.Code("EMAIL_INVALID_SUBJECT").Wrap(ErrMalformed)
	}
	if sendDate.IsZero() {
		return nil, oops.Code("EMAIL_INVALID_DATE").Wrap(ErrMalformed)
	}
	return &Email{
		OwnerID:  ownerID,
		Subject:  subject,
		Body:     body,
		IsHTML:   isHTML,
		SendDate: sendDate,
	}, nil
}

// EmailRepository manages scheduled email persistence.
type EmailRepository interface {
	// Create stores a new email and assigns its ID.
	Create(ctx context.Context, email *Email) error

	// ListByOwner retrieves the visible emails for an account, newest
	// send date first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*Email, error)
}
