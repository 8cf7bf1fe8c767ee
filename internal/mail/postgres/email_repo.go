// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

// Package postgres implements the mail repository using PostgreSQL.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/sendlater/sendlater/internal/mail"
)

// pool abstracts the pgxpool methods used by the repository so tests can
// substitute pgxmock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EmailRepository implements mail.EmailRepository using PostgreSQL.
type EmailRepository struct {
	pool pool
}

// NewEmailRepository creates a new EmailRepository.
func NewEmailRepository(pool pool) *EmailRepository {
	return &EmailRepository{pool: pool}
}

// Create stores a new email and assigns its ID.
func (r *EmailRepository) Create(ctx context.Context, email *mail.Email) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO emails (owner_id, subject, body, is_html, send_date, is_sent, is_hidden)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		email.OwnerID,
		email.Subject,
		email.Body,
		email.IsHTML,
		email.SendDate,
		email.IsSent,
		email.IsHidden,
	).Scan(&email.ID)
	if err != nil {
		return oops.Code("EMAIL_CREATE_FAILED").
			With("operation", "insert email").
			With("owner_id", email.OwnerID).
			Wrap(err)
	}
	return nil
}

// ListByOwner retrieves the visible emails for an account, newest send date
// first.
func (r *EmailRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*mail.Email, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, subject, body, is_html, send_date, is_sent, is_hidden
		FROM emails
		WHERE owner_id = $1 AND NOT is_hidden
		ORDER BY send_date DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, oops.Code("EMAIL_LIST_FAILED").
			With("operation", "list emails by owner").
			With("owner_id", ownerID).
			Wrap(err)
	}
	defer rows.Close()

	var emails []*mail.Email
	for rows.Next() {
		var e mail.Email
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Subject,
			&e.Body,
			&e.IsHTML,
			&e.SendDate,
			&e.IsSent,
			&e.IsHidden,
		); err != nil {
			return nil, oops.Code("EMAIL_SCAN_FAILED").
				With("operation", "scan email row").
				Wrap(err)
		}
		emails = append(emails, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("EMAIL_ROWS_ERROR").
			With("operation", "iterate email rows").
			Wrap(err)
	}

	return emails, nil
}
