package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	WebhookSourceZapier     = "zapier"
	WebhookEventTypeDefault = "webhook"
)

type WebhookType string

const (
	WebhookTypeProperty WebhookType = "property"
	WebhookTypeNews     WebhookType = "news"
)

// EventType is the tag stored with the raw payload. An empty selector is
// recorded as "webhook".
func (t WebhookType) EventType() string {
	if t == "" {
		return WebhookEventTypeDefault
	}
	return string(t)
}

// WebhookEvent is an immutable audit record of an inbound payload.
type WebhookEvent struct {
	ID        uuid.UUID
	Source    string
	EventType string
	Payload   json.RawMessage
	CreatedAt time.Time
}
