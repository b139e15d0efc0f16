package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

const webhookEventColumns = `id, source, event_type, payload, created_at`

// WebhookEventRepository is append-only: there is no update or delete.
type WebhookEventRepository struct {
	db *sql.DB
}

func NewWebhookEventRepository(db *sql.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

func (r *WebhookEventRepository) Create(ctx context.Context, event *domain.WebhookEvent) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO webhook_events (id, source, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Source, event.EventType, []byte(event.Payload), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookEvent, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+webhookEventColumns+` FROM webhook_events WHERE id = $1`, id,
	)
	e, err := scanWebhookEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return e, nil
}

// List returns events newest first together with the total row count.
func (r *WebhookEventRepository) List(ctx context.Context, limit, offset int) ([]domain.WebhookEvent, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM webhook_events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+webhookEventColumns+` FROM webhook_events
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	events := []domain.WebhookEvent{}
	for rows.Next() {
		e, err := scanWebhookEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return events, total, nil
}

func scanWebhookEvent(s scanner) (*domain.WebhookEvent, error) {
	var e domain.WebhookEvent
	var payload []byte
	if err := s.Scan(&e.ID, &e.Source, &e.EventType, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}
