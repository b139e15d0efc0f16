package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtyhub/backoffice/internal/auth"
	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/service"
)

type mockAdminService struct {
	property  *domain.Property
	gotStatus domain.PropertyStatus
	deleted   []uuid.UUID
	err       error
}

func (m *mockAdminService) ListProperties(context.Context, string, int, int) ([]domain.Property, int, error) {
	return nil, 0, m.err
}

func (m *mockAdminService) UpdatePropertyStatus(_ context.Context, id uuid.UUID, status domain.PropertyStatus) (*domain.Property, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.gotStatus = status
	p := *m.property
	p.Status = status
	return &p, nil
}

func (m *mockAdminService) DeleteProperty(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockAdminService) CreateNews(_ context.Context, req service.NewsPayload) (*domain.News, error) {
	return &domain.News{ID: uuid.New(), Title: req.Title, Content: req.Content}, m.err
}

func (m *mockAdminService) DeleteNews(_ context.Context, id uuid.UUID) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockAdminService) ListWebhookEvents(context.Context, int, int) ([]domain.WebhookEvent, int, error) {
	return []domain.WebhookEvent{{ID: uuid.New(), Source: "zapier", EventType: "news", Payload: []byte(`{}`)}}, 1, nil
}

func (m *mockAdminService) ListEmailNotifications(context.Context, string, int, int) ([]domain.EmailNotification, int, error) {
	return nil, 0, m.err
}

func adminMux(h *AdminHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /api/v1/admin/properties/{id}/status", h.UpdatePropertyStatus)
	mux.HandleFunc("DELETE /api/v1/admin/properties/{id}", h.DeleteProperty)
	mux.HandleFunc("POST /api/v1/admin/news", h.CreateNews)
	mux.HandleFunc("GET /api/v1/admin/webhook-events", h.ListWebhookEvents)
	mux.HandleFunc("POST /api/v1/admin/email-queue/drain", h.DrainEmailQueue)
	return mux
}

func TestAdminHandler_UpdatePropertyStatus(t *testing.T) {
	p := newProperty()
	svc := &mockAdminService{property: &p}
	mux := adminMux(NewAdminHandler(svc, &mockDrainer{}))

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid", `{"status":"sold"}`, http.StatusOK},
		{"missing", `{}`, http.StatusBadRequest},
		{"unknown", `{"status":"gone"}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/properties/"+p.ID.String()+"/status", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
	assert.Equal(t, domain.PropertyStatusSold, svc.gotStatus)
}

func TestAdminHandler_DeleteNotFound(t *testing.T) {
	svc := &mockAdminService{err: domain.ErrNotFound}
	mux := adminMux(NewAdminHandler(svc, &mockDrainer{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/properties/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, svc.deleted, 1)
}

func TestAdminHandler_CreateNewsAndListEvents(t *testing.T) {
	mux := adminMux(NewAdminHandler(&mockAdminService{}, &mockDrainer{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/news", strings.NewReader(`{"title":"t","content":"c"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/webhook-events?limit=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
}

func TestAdminHandler_DrainEmptyQueue(t *testing.T) {
	mux := adminMux(NewAdminHandler(&mockAdminService{}, &mockDrainer{}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/email-queue/drain", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.NoPendingEmailsMessage, decodeEnvelope(t, rec).Message)
}

type mockUserReader struct {
	user *domain.User
}

func (m *mockUserReader) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if m.user == nil || !strings.EqualFold(m.user.Email, email) {
		return nil, domain.ErrNotFound
	}
	return m.user, nil
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "admin@test.com",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         domain.UserRoleAdmin,
		Status:       domain.UserStatusActive,
	}
	h := NewAuthHandler(&mockUserReader{user: user}, "test-jwt-secret-0123", time.Hour)

	tests := []struct {
		name     string
		body     string
		status   domain.UserStatus
		wantCode int
		wantErr  string
	}{
		{"success", `{"email":"admin@test.com","password":"correct-horse"}`, domain.UserStatusActive, http.StatusOK, ""},
		{"wrong password", `{"email":"admin@test.com","password":"nope"}`, domain.UserStatusActive, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown user", `{"email":"who@test.com","password":"x"}`, domain.UserStatusActive, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"missing fields", `{}`, domain.UserStatusActive, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"suspended", `{"email":"admin@test.com","password":"correct-horse"}`, domain.UserStatusSuspended, http.StatusForbidden, "ACCOUNT_SUSPENDED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user.Status = tc.status
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tc.body)))

			assert.Equal(t, tc.wantCode, rec.Code)
			env := decodeEnvelope(t, rec)
			if tc.wantErr != "" {
				assert.Equal(t, tc.wantErr, env.Error.Code)
				return
			}
			assert.Contains(t, string(env.Data), `"role":"admin"`)
		})
	}
}

func TestAuthHandler_Session(t *testing.T) {
	h := NewAuthHandler(&mockUserReader{}, "secret", time.Hour)

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s := &auth.Session{UserID: uuid.New(), Email: "ed@test.com", Role: domain.UserRoleEditor, ExpiresAt: time.Now().Add(time.Hour)}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req = req.WithContext(auth.ContextWithSession(req.Context(), s))
	rec = httptest.NewRecorder()
	h.Session(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"editor"`)
}
