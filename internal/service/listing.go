package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/geo"
)

type PropertyDetail struct {
	Property  *domain.Property
	MapCenter *geo.Coordinates
}

// ListingService serves the public website.
type ListingService struct {
	properties propertyRepository
	news       newsRepository
}

func NewListingService(properties propertyRepository, news newsRepository) *ListingService {
	return &ListingService{properties: properties, news: news}
}

// ListProperties defaults to available listings; status "all" lists every
// status.
func (s *ListingService) ListProperties(ctx context.Context, status string, limit, offset int) ([]domain.Property, int, error) {
	var filter domain.PropertyStatus
	switch status {
	case "":
		filter = domain.PropertyStatusAvailable
	case "all":
	default:
		filter = domain.PropertyStatus(status)
		if !filter.IsValid() {
			return nil, 0, fmt.Errorf("ListProperties: %w", domain.ErrInvalidStatus)
		}
	}

	props, total, err := s.properties.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProperties: %w", err)
	}
	return props, total, nil
}

func (s *ListingService) GetProperty(ctx context.Context, id uuid.UUID) (*PropertyDetail, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetProperty: %w", err)
	}

	var mapURL string
	if p.MapURL != nil {
		mapURL = *p.MapURL
	}
	return &PropertyDetail{
		Property:  p,
		MapCenter: geo.ResolveCenter(p.Latitude, p.Longitude, mapURL),
	}, nil
}

func (s *ListingService) ListNews(ctx context.Context, limit, offset int) ([]domain.News, int, error) {
	items, total, err := s.news.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListNews: %w", err)
	}
	return items, total, nil
}
