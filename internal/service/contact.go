package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/validation"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactService turns a website contact form into a pending email
// notification for the queue drainer.
type ContactService struct {
	notifications emailNotificationWriter
	validator     *validation.Validator
}

func NewContactService(notifications emailNotificationWriter, v *validation.Validator) *ContactService {
	return &ContactService{notifications: notifications, validator: v}
}

func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (*domain.EmailNotification, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("Submit: %w", err)
	}

	now := time.Now().UTC()
	payload, err := json.Marshal(domain.ContactSubmission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("Submit: marshal payload: %w", err)
	}

	n := &domain.EmailNotification{
		ID:        uuid.New(),
		Payload:   payload,
		Status:    domain.EmailStatusPending,
		CreatedAt: now,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("Submit: %w", err)
	}

	logging.FromContext(ctx).Info("contact submission queued", "email_notification_id", n.ID)
	return n, nil
}
