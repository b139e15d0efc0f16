package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/validation"
)

func seedFakeProperty(repo *fakePropertyRepo, status domain.PropertyStatus, mapURL *string) *domain.Property {
	p := &domain.Property{
		ID:        uuid.New(),
		Title:     "Casa",
		Price:     decimal.NewFromInt(100),
		Status:    status,
		MapURL:    mapURL,
		CreatedAt: time.Now().UTC(),
	}
	repo.properties[p.ID] = p
	return p
}

func TestListingService_ListPropertiesStatusFilter(t *testing.T) {
	repo := newFakePropertyRepo()
	seedFakeProperty(repo, domain.PropertyStatusAvailable, nil)
	seedFakeProperty(repo, domain.PropertyStatusSold, nil)
	svc := NewListingService(repo, &fakeNewsRepo{})

	props, total, err := svc.ListProperties(context.Background(), "", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusAvailable, repo.lastStatus)
	assert.Equal(t, 1, total)
	assert.Len(t, props, 1)

	_, total, err = svc.ListProperties(context.Background(), "all", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	_, _, err = svc.ListProperties(context.Background(), "demolished", 20, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestListingService_GetPropertyMapCenter(t *testing.T) {
	repo := newFakePropertyRepo()
	url := "https://www.google.com/maps/place/Tijuana/@32.5149,-117.0382,15z"
	p := seedFakeProperty(repo, domain.PropertyStatusAvailable, &url)
	svc := NewListingService(repo, &fakeNewsRepo{})

	detail, err := svc.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.MapCenter)
	assert.InDelta(t, 32.5149, detail.MapCenter.Lat, 1e-9)
	assert.InDelta(t, -117.0382, detail.MapCenter.Lng, 1e-9)

	lat, lng := 10.0, 20.0
	p.Latitude, p.Longitude = &lat, &lng
	detail, err = svc.GetProperty(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, detail.MapCenter.Lat)

	_, err = svc.GetProperty(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminService_PropertyLifecycle(t *testing.T) {
	repo := newFakePropertyRepo()
	p := seedFakeProperty(repo, domain.PropertyStatusAvailable, nil)
	svc := NewAdminService(repo, &fakeNewsRepo{}, &fakeEventRepo{}, nil, validation.New())
	ctx := context.Background()

	updated, err := svc.UpdatePropertyStatus(ctx, p.ID, domain.PropertyStatusReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyStatusReserved, updated.Status)

	_, err = svc.UpdatePropertyStatus(ctx, p.ID, "gone")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	require.NoError(t, svc.DeleteProperty(ctx, p.ID))
	assert.ErrorIs(t, svc.DeleteProperty(ctx, p.ID), domain.ErrNotFound)

	_, err = svc.UpdatePropertyStatus(ctx, p.ID, domain.PropertyStatusSold)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminService_News(t *testing.T) {
	news := &fakeNewsRepo{}
	svc := NewAdminService(newFakePropertyRepo(), news, &fakeEventRepo{}, nil, validation.New())
	ctx := context.Background()

	n, err := svc.CreateNews(ctx, NewsPayload{Title: "Título", Content: "Contenido"})
	require.NoError(t, err)
	require.Len(t, news.items, 1)

	_, err = svc.CreateNews(ctx, NewsPayload{Title: "Sin contenido"})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.DeleteNews(ctx, n.ID))
	assert.Empty(t, news.items)
}

func TestAdminService_ListEmailNotificationsRejectsUnknownStatus(t *testing.T) {
	svc := NewAdminService(newFakePropertyRepo(), &fakeNewsRepo{}, &fakeEventRepo{}, nil, validation.New())
	_, _, err := svc.ListEmailNotifications(context.Background(), "bounced", 10, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
