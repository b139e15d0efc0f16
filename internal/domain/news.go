package domain

import (
	"time"

	"github.com/google/uuid"
)

type News struct {
	ID              uuid.UUID
	Title           string
	Content         string
	FeatureImageURL *string
	CreatedAt       time.Time
}
