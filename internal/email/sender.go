package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/external"
	"github.com/realtyhub/backoffice/internal/logging"
)

type Provider interface {
	Send(ctx context.Context, email external.Email) (string, error)
}

type SenderConfig struct {
	From string
	To   string
}

// Sender renders a contact submission and dispatches it through the provider.
// It is the in-process implementation of the send-contact-email function.
type Sender struct {
	renderer *Renderer
	provider Provider
	from     string
	to       string
}

func NewSender(renderer *Renderer, provider Provider, cfg SenderConfig) *Sender {
	return &Sender{renderer: renderer, provider: provider, from: cfg.From, to: cfg.To}
}

func (s *Sender) Send(ctx context.Context, sub domain.ContactSubmission) error {
	if err := ValidateSubmission(sub); err != nil {
		return fmt.Errorf("Send: %w", err)
	}

	rendered, err := s.renderer.Render(sub)
	if err != nil {
		return fmt.Errorf("Send: %w", err)
	}

	id, err := s.provider.Send(ctx, external.Email{
		From:    s.from,
		To:      []string{s.to},
		ReplyTo: sub.Email,
		Subject: rendered.Subject,
		HTML:    rendered.BodyHTML,
		Text:    rendered.BodyText,
	})
	if err != nil {
		return fmt.Errorf("Send: %w", err)
	}

	logging.FromContext(ctx).Info("contact email sent", "provider_id", id)
	return nil
}

// ValidateSubmission reports every missing field at once.
func ValidateSubmission(sub domain.ContactSubmission) error {
	var missing []string
	if strings.TrimSpace(sub.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(sub.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(sub.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(sub.Message) == "" {
		missing = append(missing, "message")
	}
	if sub.CreatedAt.IsZero() {
		missing = append(missing, "created_at")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", domain.ErrMalformedPayload, strings.Join(missing, ", "))
	}
	return nil
}
