package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EmailNotificationStatus string

const (
	EmailStatusPending    EmailNotificationStatus = "pending"
	EmailStatusProcessing EmailNotificationStatus = "processing"
	EmailStatusSent       EmailNotificationStatus = "sent"
	EmailStatusFailed     EmailNotificationStatus = "failed"
)

func (s EmailNotificationStatus) IsValid() bool {
	switch s {
	case EmailStatusPending, EmailStatusProcessing, EmailStatusSent, EmailStatusFailed:
		return true
	}
	return false
}

type EmailNotification struct {
	ID          uuid.UUID
	Payload     json.RawMessage
	Status      EmailNotificationStatus
	Error       *string
	CreatedAt   time.Time
	ClaimedAt   *time.Time
	ProcessedAt *time.Time
}

// StaleClaimReason is recorded on rows whose claim expired before the
// drainer marked them. The email may or may not have been delivered.
const StaleClaimReason = "claim expired before completion; delivery outcome unknown"
