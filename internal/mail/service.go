// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
)

// Service provides scheduled-email operations. It only ever sees the
// resolved account ID from the authentication gate, never credentials.
type Service struct {
	emails EmailRepository
	logger *slog.Logger
}

// NewService creates a new Service with the default logger.
func NewService(emails EmailRepository) (*Service, error) {
	return NewServiceWithLogger(emails, slog.Default())
}

// NewServiceWithLogger creates a new Service with an explicit logger.
func NewServiceWithLogger(emails EmailRepository, logger *slog.Logger) (*Service, error) {
	if emails == nil {
		return nil, oops.Errorf("emails repository is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{emails: emails, logger: logger}, nil
}

// Schedule parses the raw message and send date and stores the email for
// the owner. Parse failures surface as ErrMalformed.
func (s *Service) Schedule(ctx context.Context, ownerID int64, raw, sendDate string) (*Email, error) {
	parsed, err := ParseMessage(raw)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(SendDateLayout, sendDate)
	if err != nil {
		return nil, oops.Code("EMAIL_INVALID_DATE").
			With("send_date", sendDate).
			Wrap(ErrMalformed)
	}

	email, err := NewEmail(ownerID, parsed.Subject, parsed.Body, parsed.IsHTML, date)
	if err != nil {
		return nil, err
	}

	if err := s.emails.Create(ctx, email); err != nil {
		return nil, oops.Code("EMAIL_SCHEDULE_FAILED").
			With("operation", "create email").
			With("owner_id", ownerID).
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "email scheduled",
		"email_id", email.ID,
		"owner_id", ownerID,
		"send_date", date.Format(SendDateLayout),
	)
	return email, nil
}

// List returns the owner's visible scheduled emails.
func (s *Service) List(ctx context.Context, ownerID int64) ([]*Email, error) {
	emails, err := s.emails.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, oops.Code("EMAIL_LIST_FAILED").
			With("operation", "list emails by owner").
			With("owner_id", ownerID).
			Wrap(err)
	}
	return emails, nil
}
