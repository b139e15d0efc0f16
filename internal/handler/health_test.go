package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type stubBreaker string

func (b stubBreaker) State() string { return string(b) }

func TestHealthHandler_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantDB     string
	}{
		{name: "database up", wantStatus: http.StatusOK, wantDB: "ok"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantDB: "down"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(stubPinger{err: tc.pingErr}, map[string]BreakerReporter{
				"resend": stubBreaker("open"),
			})

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.wantDB, body.Checks["database"])
			assert.Equal(t, "open", body.Checks["resend"])
		})
	}
}

func TestServeSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	ServeSpec([]byte("openapi: 3.0.3\n"))(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "openapi")
}
