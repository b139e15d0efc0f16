package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/geo"
	"github.com/realtyhub/backoffice/internal/service"
	"github.com/realtyhub/backoffice/internal/validation"
)

type mockListingService struct {
	props     []domain.Property
	gotStatus string
	gotLimit  int
	gotOffset int
	detail    *service.PropertyDetail
	err       error
}

func (m *mockListingService) ListProperties(_ context.Context, status string, limit, offset int) ([]domain.Property, int, error) {
	m.gotStatus, m.gotLimit, m.gotOffset = status, limit, offset
	return m.props, len(m.props), m.err
}

func (m *mockListingService) GetProperty(_ context.Context, id uuid.UUID) (*service.PropertyDetail, error) {
	if m.detail == nil || m.detail.Property.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.detail, nil
}

func (m *mockListingService) ListNews(context.Context, int, int) ([]domain.News, int, error) {
	return []domain.News{{ID: uuid.New(), Title: "Noticia", Content: "..."}}, 1, nil
}

type mockContactService struct {
	got service.ContactRequest
	err error
}

func (m *mockContactService) Submit(_ context.Context, req service.ContactRequest) (*domain.EmailNotification, error) {
	m.got = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.EmailNotification{ID: uuid.New(), Status: domain.EmailStatusPending}, nil
}

type mockChatService struct {
	reply *service.ChatReply
	err   error
}

func (m *mockChatService) Reply(context.Context, service.ChatRequest) (*service.ChatReply, error) {
	return m.reply, m.err
}

func newProperty() domain.Property {
	area := decimal.NewFromInt(100)
	ppsqm := decimal.NewFromInt(2000)
	return domain.Property{
		ID:          uuid.New(),
		Title:       "Casa",
		Price:       decimal.NewFromInt(200000),
		Area:        &area,
		PricePerSqm: &ppsqm,
		Currency:    "USD",
		Status:      domain.PropertyStatusAvailable,
		Images:      []string{},
		Features:    []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

func TestPublicHandler_ListProperties(t *testing.T) {
	listings := &mockListingService{props: []domain.Property{newProperty()}}
	h := NewPublicHandler(listings, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?limit=5&offset=10&status=sold", nil)
	rec := httptest.NewRecorder()
	h.ListProperties(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sold", listings.gotStatus)
	assert.Equal(t, 5, listings.gotLimit)
	assert.Equal(t, 10, listings.gotOffset)

	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "2000", page.Items[0]["price_per_sqm"])
}

func TestPublicHandler_ListPropertiesBadPage(t *testing.T) {
	h := NewPublicHandler(&mockListingService{}, nil, nil)

	for _, q := range []string{"limit=0", "limit=500", "limit=abc", "offset=-1"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/properties?"+q, nil)
		rec := httptest.NewRecorder()
		h.ListProperties(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestPublicHandler_ListPropertiesInvalidStatus(t *testing.T) {
	h := NewPublicHandler(&mockListingService{err: domain.ErrInvalidStatus}, nil, nil)
	rec := httptest.NewRecorder()
	h.ListProperties(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties?status=x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_STATUS", decodeEnvelope(t, rec).Error.Code)
}

func TestPublicHandler_GetProperty(t *testing.T) {
	p := newProperty()
	listings := &mockListingService{detail: &service.PropertyDetail{
		Property:  &p,
		MapCenter: &geo.Coordinates{Lat: 32.5149, Lng: -117.0382},
	}}
	h := NewPublicHandler(listings, nil, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/properties/{id}", h.GetProperty)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+p.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))
	assert.Equal(t, p.ID.String(), body["id"])
	assert.Equal(t, map[string]any{"lat": 32.5149, "lng": -117.0382}, body["map_center"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/properties/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicHandler_SubmitContact(t *testing.T) {
	contacts := &mockContactService{}
	h := NewPublicHandler(nil, contacts, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","phone":"1","message":"hola"}`))
	rec := httptest.NewRecorder()
	h.SubmitContact(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Ana", contacts.got.Name)

	contacts.err = &validation.Error{Violations: []validation.FieldViolation{{Field: "email", Message: "must be a valid email address"}}}
	rec = httptest.NewRecorder()
	h.SubmitContact(rec, httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(`{"name":"Ana"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rec).Error.Code)
}

func TestPublicHandler_ChatFallbackIs200(t *testing.T) {
	h := NewPublicHandler(nil, nil, &mockChatService{reply: &service.ChatReply{Reply: service.ChatFallbackReply, Fallback: true}})

	rec := httptest.NewRecorder()
	h.Chat(rec, httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"message":"hola"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var reply service.ChatReply
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &reply))
	assert.True(t, reply.Fallback)
}
