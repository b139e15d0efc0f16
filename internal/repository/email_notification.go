package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

const emailNotificationColumns = `id, payload, status, error, created_at, claimed_at, processed_at`

type EmailNotificationRepository struct {
	db *sql.DB
}

func NewEmailNotificationRepository(db *sql.DB) *EmailNotificationRepository {
	return &EmailNotificationRepository{db: db}
}

func (r *EmailNotificationRepository) Create(ctx context.Context, n *domain.EmailNotification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_notifications (id, payload, status, created_at)
		VALUES ($1, $2, $3, $4)`,
		n.ID, []byte(n.Payload), n.Status, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ClaimPending moves up to limit of the oldest pending rows to processing and
// returns them. SKIP LOCKED keeps concurrent drainers from claiming the same
// row; a row is returned to at most one caller.
func (r *EmailNotificationRepository) ClaimPending(ctx context.Context, limit int) ([]domain.EmailNotification, error) {
	rows, err := r.db.QueryContext(ctx,
		`WITH claimed AS (
			SELECT id FROM email_notifications
			WHERE status = $1
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE email_notifications n SET status = $3, claimed_at = now()
		FROM claimed
		WHERE n.id = claimed.id
		RETURNING n.id, n.payload, n.status, n.error, n.created_at, n.claimed_at, n.processed_at`,
		domain.EmailStatusPending, limit, domain.EmailStatusProcessing,
	)
	if err != nil {
		return nil, fmt.Errorf("ClaimPending: %w", err)
	}
	defer rows.Close()

	var claimed []domain.EmailNotification
	for rows.Next() {
		n, err := scanEmailNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("ClaimPending: scan: %w", err)
		}
		claimed = append(claimed, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ClaimPending: rows: %w", err)
	}

	// RETURNING order is unspecified.
	sortByCreatedAt(claimed)
	return claimed, nil
}

// MarkSent and MarkFailed only move rows out of processing, so each terminal
// transition happens once.
func (r *EmailNotificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.finish(ctx, "MarkSent", id, domain.EmailStatusSent, nil, at)
}

func (r *EmailNotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string, at time.Time) error {
	return r.finish(ctx, "MarkFailed", id, domain.EmailStatusFailed, &reason, at)
}

func (r *EmailNotificationRepository) finish(ctx context.Context, op string, id uuid.UUID, status domain.EmailNotificationStatus, reason *string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_notifications SET status = $1, error = $2, processed_at = $3
		WHERE id = $4 AND status = $5`,
		status, reason, at, id, domain.EmailStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotClaimed)
	}
	return nil
}

// FailStale moves rows that have been processing for longer than olderThan
// to failed. They are never put back to pending, so a row whose send
// succeeded but whose MarkSent was lost is not delivered twice.
func (r *EmailNotificationRepository) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE email_notifications SET status = $1, error = $2, processed_at = now()
		WHERE status = $3 AND claimed_at < now() - make_interval(secs => $4)`,
		domain.EmailStatusFailed, domain.StaleClaimReason, domain.EmailStatusProcessing, olderThan.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("FailStale: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("FailStale: rows affected: %w", err)
	}
	return n, nil
}

func (r *EmailNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmailNotification, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+emailNotificationColumns+` FROM email_notifications WHERE id = $1`, id,
	)
	n, err := scanEmailNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return n, nil
}

// List returns notifications newest first. An empty status matches every row.
func (r *EmailNotificationRepository) List(ctx context.Context, status domain.EmailNotificationStatus, limit, offset int) ([]domain.EmailNotification, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM email_notifications WHERE ($1 = '' OR status = $1)`, string(status),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+emailNotificationColumns+` FROM email_notifications
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		string(status), limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	items := []domain.EmailNotification{}
	for rows.Next() {
		n, err := scanEmailNotification(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return items, total, nil
}

func scanEmailNotification(s scanner) (*domain.EmailNotification, error) {
	var n domain.EmailNotification
	var payload []byte
	if err := s.Scan(&n.ID, &payload, &n.Status, &n.Error, &n.CreatedAt, &n.ClaimedAt, &n.ProcessedAt); err != nil {
		return nil, err
	}
	n.Payload = payload
	return &n, nil
}
