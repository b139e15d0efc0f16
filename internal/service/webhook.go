package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/validation"
)

// PropertyPayload is the webhook body for type=property.
type PropertyPayload struct {
	Title        string   `json:"title" validate:"required,max=300"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Area         *float64 `json:"area" validate:"omitempty,gte=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
	PropertyType string   `json:"property_type" validate:"omitempty,max=50"`
	Status       string   `json:"status" validate:"omitempty,oneof=available sold rented reserved"`
	Location     *string  `json:"location"`
	Bedrooms     *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms    *int     `json:"bathrooms" validate:"omitempty,gte=0"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	MapURL       *string  `json:"map_url" validate:"omitempty,url"`
	Images       []string `json:"images" validate:"omitempty,dive,url"`
	Features     []string `json:"features" validate:"omitempty,dive,required"`
}

// NewsPayload is the webhook body for type=news.
type NewsPayload struct {
	Title           string  `json:"title" validate:"required,max=300"`
	Content         string  `json:"content" validate:"required"`
	FeatureImageURL *string `json:"feature_image_url" validate:"omitempty,url"`
}

type WebhookService struct {
	events     webhookEventRepository
	properties propertyRepository
	news       newsRepository
	validator  *validation.Validator
}

func NewWebhookService(events webhookEventRepository, properties propertyRepository, news newsRepository, v *validation.Validator) *WebhookService {
	return &WebhookService{events: events, properties: properties, news: news, validator: v}
}

// Handle validates raw against the variant selected by typ, records it in
// the event log and then writes the domain row. The event insert and the
// domain insert are separate statements: if the second fails the event row
// stays, and the error carries its id.
func (s *WebhookService) Handle(ctx context.Context, typ domain.WebhookType, raw json.RawMessage) (*domain.WebhookEvent, error) {
	log := logging.FromContext(ctx)

	var (
		prop *PropertyPayload
		news *NewsPayload
	)
	switch typ {
	case domain.WebhookTypeProperty:
		prop = &PropertyPayload{}
		if err := s.decodeAndValidate(raw, prop); err != nil {
			return nil, fmt.Errorf("Handle: %w", err)
		}
	case domain.WebhookTypeNews:
		news = &NewsPayload{}
		if err := s.decodeAndValidate(raw, news); err != nil {
			return nil, fmt.Errorf("Handle: %w", err)
		}
	default:
		if !json.Valid(raw) {
			return nil, fmt.Errorf("Handle: %w: body is not valid JSON", domain.ErrMalformedPayload)
		}
	}

	now := time.Now().UTC()
	event := &domain.WebhookEvent{
		ID:        uuid.New(),
		Source:    domain.WebhookSourceZapier,
		EventType: typ.EventType(),
		Payload:   raw,
		CreatedAt: now,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("Handle: record event: %w", err)
	}

	log = log.With("webhook_event_id", event.ID, "event_type", event.EventType)

	switch {
	case prop != nil:
		p := prop.toProperty(now)
		if err := s.properties.Create(ctx, p); err != nil {
			log.Error("property insert failed after event was recorded", "error", err)
			return nil, fmt.Errorf("Handle: event %s: create property: %w", event.ID, err)
		}
		log.Info("property created from webhook", "property_id", p.ID)
	case news != nil:
		n := news.toNews(now)
		if err := s.news.Create(ctx, n); err != nil {
			log.Error("news insert failed after event was recorded", "error", err)
			return nil, fmt.Errorf("Handle: event %s: create news: %w", event.ID, err)
		}
		log.Info("news created from webhook", "news_id", n.ID)
	default:
		log.Info("webhook recorded without domain insert")
	}

	return event, nil
}

func (s *WebhookService) decodeAndValidate(raw json.RawMessage, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	return s.validator.Struct(dst)
}

func (p *PropertyPayload) toProperty(now time.Time) *domain.Property {
	price := decimal.NewFromFloat(*p.Price)
	var area *decimal.Decimal
	if p.Area != nil {
		a := decimal.NewFromFloat(*p.Area)
		area = &a
	}

	currency := p.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	propertyType := p.PropertyType
	if propertyType == "" {
		propertyType = domain.DefaultPropertyType
	}
	status := domain.PropertyStatus(p.Status)
	if status == "" {
		status = domain.PropertyStatusAvailable
	}

	return &domain.Property{
		ID:           uuid.New(),
		Title:        p.Title,
		Description:  p.Description,
		Price:        price,
		Area:         area,
		PricePerSqm:  domain.PricePerUnitArea(price, area),
		Currency:     currency,
		PropertyType: propertyType,
		Status:       status,
		Location:     p.Location,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		MapURL:       p.MapURL,
		Images:       nonNilStrings(p.Images),
		Features:     nonNilStrings(p.Features),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *NewsPayload) toNews(now time.Time) *domain.News {
	return &domain.News{
		ID:              uuid.New(),
		Title:           p.Title,
		Content:         p.Content,
		FeatureImageURL: p.FeatureImageURL,
		CreatedAt:       now,
	}
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
