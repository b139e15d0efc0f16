package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

type webhookEventRepository interface {
	Create(ctx context.Context, event *domain.WebhookEvent) error
	List(ctx context.Context, limit, offset int) ([]domain.WebhookEvent, int, error)
}

type propertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context, status domain.PropertyStatus, limit, offset int) ([]domain.Property, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PropertyStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type newsRepository interface {
	Create(ctx context.Context, n *domain.News) error
	List(ctx context.Context, limit, offset int) ([]domain.News, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type emailQueueRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]domain.EmailNotification, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, at time.Time) error
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type emailNotificationWriter interface {
	Create(ctx context.Context, n *domain.EmailNotification) error
}

type emailNotificationReader interface {
	List(ctx context.Context, status domain.EmailNotificationStatus, limit, offset int) ([]domain.EmailNotification, int, error)
}

// ContactSender delivers one contact submission. Implemented in-process by
// email.Sender and over HTTP by email.Relay.
type ContactSender interface {
	Send(ctx context.Context, sub domain.ContactSubmission) error
}
