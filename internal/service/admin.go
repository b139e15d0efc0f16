package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/validation"
)

type AdminService struct {
	properties    propertyRepository
	news          newsRepository
	events        webhookEventRepository
	notifications emailNotificationReader
	validator     *validation.Validator
}

func NewAdminService(
	properties propertyRepository,
	news newsRepository,
	events webhookEventRepository,
	notifications emailNotificationReader,
	v *validation.Validator,
) *AdminService {
	return &AdminService{
		properties:    properties,
		news:          news,
		events:        events,
		notifications: notifications,
		validator:     v,
	}
}

// ListProperties lists every status unless one is given.
func (s *AdminService) ListProperties(ctx context.Context, status string, limit, offset int) ([]domain.Property, int, error) {
	filter := domain.PropertyStatus(status)
	if filter != "" && !filter.IsValid() {
		return nil, 0, fmt.Errorf("ListProperties: %w", domain.ErrInvalidStatus)
	}
	props, total, err := s.properties.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProperties: %w", err)
	}
	return props, total, nil
}

func (s *AdminService) UpdatePropertyStatus(ctx context.Context, id uuid.UUID, status domain.PropertyStatus) (*domain.Property, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("UpdatePropertyStatus: %w", domain.ErrInvalidStatus)
	}
	if err := s.properties.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("UpdatePropertyStatus: %w", err)
	}
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("UpdatePropertyStatus: %w", err)
	}
	logging.FromContext(ctx).Info("property status updated", "property_id", id, "status", status)
	return p, nil
}

func (s *AdminService) DeleteProperty(ctx context.Context, id uuid.UUID) error {
	if err := s.properties.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteProperty: %w", err)
	}
	logging.FromContext(ctx).Info("property deleted", "property_id", id)
	return nil
}

func (s *AdminService) CreateNews(ctx context.Context, req NewsPayload) (*domain.News, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("CreateNews: %w", err)
	}
	n := req.toNews(time.Now().UTC())
	if err := s.news.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("CreateNews: %w", err)
	}
	logging.FromContext(ctx).Info("news created", "news_id", n.ID)
	return n, nil
}

func (s *AdminService) DeleteNews(ctx context.Context, id uuid.UUID) error {
	if err := s.news.Delete(ctx, id); err != nil {
		return fmt.Errorf("DeleteNews: %w", err)
	}
	logging.FromContext(ctx).Info("news deleted", "news_id", id)
	return nil
}

func (s *AdminService) ListWebhookEvents(ctx context.Context, limit, offset int) ([]domain.WebhookEvent, int, error) {
	events, total, err := s.events.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListWebhookEvents: %w", err)
	}
	return events, total, nil
}

func (s *AdminService) ListEmailNotifications(ctx context.Context, status string, limit, offset int) ([]domain.EmailNotification, int, error) {
	filter := domain.EmailNotificationStatus(status)
	if filter != "" && !filter.IsValid() {
		return nil, 0, fmt.Errorf("ListEmailNotifications: %w", domain.ErrInvalidStatus)
	}
	items, total, err := s.notifications.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListEmailNotifications: %w", err)
	}
	return items, total, nil
}
