package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/validation"
)

type mockWebhookService struct {
	typ   domain.WebhookType
	raw   json.RawMessage
	calls int
	err   error
}

func (m *mockWebhookService) Handle(_ context.Context, typ domain.WebhookType, raw json.RawMessage) (*domain.WebhookEvent, error) {
	m.calls++
	m.typ = typ
	m.raw = raw
	if m.err != nil {
		return nil, m.err
	}
	return &domain.WebhookEvent{
		ID:        uuid.New(),
		Source:    domain.WebhookSourceZapier,
		EventType: typ.EventType(),
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestWebhookHandler_Success(t *testing.T) {
	svc := &mockWebhookService{}
	h := NewWebhookHandler(svc)

	body := `{"title":"Casa","price":200000,"area":100}`
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/webhook-handler?type=property", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Webhook processed successfully", env.Message)
	assert.Equal(t, domain.WebhookTypeProperty, svc.typ)

	var event webhookEventDTO
	require.NoError(t, json.Unmarshal(env.Data, &event))
	assert.Equal(t, "zapier", event.Source)
	assert.Equal(t, "property", event.EventType)
	assert.JSONEq(t, body, string(event.Payload))
}

func TestWebhookHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		body      string
		svcErr    error
		wantCode  int
		wantError string
		wantCalls int
	}{
		{
			name:     "preflight",
			method:   http.MethodOptions,
			wantCode: http.StatusOK,
		},
		{
			name:      "get not allowed",
			method:    http.MethodGet,
			wantCode:  http.StatusMethodNotAllowed,
			wantError: "METHOD_NOT_ALLOWED",
		},
		{
			name:      "malformed json",
			method:    http.MethodPost,
			body:      `{"title":`,
			wantCode:  http.StatusInternalServerError,
			wantError: "MALFORMED_PAYLOAD",
		},
		{
			name:      "variant decode failure",
			method:    http.MethodPost,
			body:      `{"price":"cheap"}`,
			svcErr:    fmt.Errorf("Handle: %w: cannot unmarshal string", domain.ErrMalformedPayload),
			wantCode:  http.StatusInternalServerError,
			wantError: "MALFORMED_PAYLOAD",
			wantCalls: 1,
		},
		{
			name:      "validation failure",
			method:    http.MethodPost,
			body:      `{"price":1}`,
			svcErr:    &validation.Error{Violations: []validation.FieldViolation{{Field: "title", Message: "required"}}},
			wantCode:  http.StatusBadRequest,
			wantError: "VALIDATION_FAILED",
			wantCalls: 1,
		},
		{
			name:      "store failure",
			method:    http.MethodPost,
			body:      `{"title":"x","price":1}`,
			svcErr:    errors.New("connection refused"),
			wantCode:  http.StatusInternalServerError,
			wantError: "INTERNAL_ERROR",
			wantCalls: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockWebhookService{err: tc.svcErr}
			h := NewWebhookHandler(svc)

			req := httptest.NewRequest(tc.method, "/functions/v1/webhook-handler?type=property", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Equal(t, tc.wantCalls, svc.calls)
			if tc.wantError != "" {
				env := decodeEnvelope(t, rec)
				assert.False(t, env.Success)
				assert.Equal(t, tc.wantError, env.Error.Code)
			}
		})
	}
}

func TestWebhookHandler_ValidationDetails(t *testing.T) {
	svc := &mockWebhookService{err: &validation.Error{Violations: []validation.FieldViolation{
		{Field: "title", Message: "required"},
		{Field: "price", Message: "must be greater than or equal to 0"},
	}}}
	h := NewWebhookHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/webhook-handler?type=property", strings.NewReader(`{"price":-1}`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	env := decodeEnvelope(t, rec)
	require.Len(t, env.Error.Details, 2)
	assert.Equal(t, "title", env.Error.Details[0].Field)
}

func TestWebhookHandler_BodyTooLarge(t *testing.T) {
	svc := &mockWebhookService{}
	h := NewWebhookHandler(svc)

	big := `{"x":"` + strings.Repeat("a", maxWebhookBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/webhook-handler", strings.NewReader(big))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestWebhookHandler_MissingTypeIsPassedThrough(t *testing.T) {
	svc := &mockWebhookService{}
	h := NewWebhookHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/webhook-handler", strings.NewReader(`[1,2,3]`))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.WebhookType(""), svc.typ)
}
