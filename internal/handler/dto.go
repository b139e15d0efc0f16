package handler

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/geo"
)

type webhookEventDTO struct {
	ID        uuid.UUID       `json:"id"`
	Source    string          `json:"source"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func toWebhookEventDTO(e *domain.WebhookEvent) webhookEventDTO {
	return webhookEventDTO{
		ID:        e.ID,
		Source:    e.Source,
		EventType: e.EventType,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

type propertyDTO struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	Area         *decimal.Decimal `json:"area"`
	PricePerSqm  *decimal.Decimal `json:"price_per_sqm"`
	Currency     string           `json:"currency"`
	PropertyType string           `json:"property_type"`
	Status       string           `json:"status"`
	Location     *string          `json:"location"`
	Bedrooms     *int             `json:"bedrooms"`
	Bathrooms    *int             `json:"bathrooms"`
	Latitude     *float64         `json:"latitude"`
	Longitude    *float64         `json:"longitude"`
	MapURL       *string          `json:"map_url"`
	Images       []string         `json:"images"`
	Features     []string         `json:"features"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func toPropertyDTO(p *domain.Property) propertyDTO {
	return propertyDTO{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Area:         p.Area,
		PricePerSqm:  p.PricePerSqm,
		Currency:     p.Currency,
		PropertyType: p.PropertyType,
		Status:       string(p.Status),
		Location:     p.Location,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		MapURL:       p.MapURL,
		Images:       p.Images,
		Features:     p.Features,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPropertyDTOs(props []domain.Property) []propertyDTO {
	out := make([]propertyDTO, len(props))
	for i := range props {
		out[i] = toPropertyDTO(&props[i])
	}
	return out
}

type propertyDetailDTO struct {
	propertyDTO
	MapCenter *geo.Coordinates `json:"map_center"`
}

type newsDTO struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	FeatureImageURL *string   `json:"feature_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func toNewsDTO(n *domain.News) newsDTO {
	return newsDTO{
		ID:              n.ID,
		Title:           n.Title,
		Content:         n.Content,
		FeatureImageURL: n.FeatureImageURL,
		CreatedAt:       n.CreatedAt,
	}
}

type emailNotificationDTO struct {
	ID          uuid.UUID       `json:"id"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Error       *string         `json:"error"`
	CreatedAt   time.Time       `json:"created_at"`
	ClaimedAt   *time.Time      `json:"claimed_at"`
	ProcessedAt *time.Time      `json:"processed_at"`
}

func toEmailNotificationDTO(n *domain.EmailNotification) emailNotificationDTO {
	return emailNotificationDTO{
		ID:          n.ID,
		Payload:     n.Payload,
		Status:      string(n.Status),
		Error:       n.Error,
		CreatedAt:   n.CreatedAt,
		ClaimedAt:   n.ClaimedAt,
		ProcessedAt: n.ProcessedAt,
	}
}
