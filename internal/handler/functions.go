package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/service"
)

type emailDrainer interface {
	Drain(ctx context.Context) (*service.DrainResult, error)
}

type contactSender interface {
	Send(ctx context.Context, sub domain.ContactSubmission) error
}

// FunctionsHandler serves the internal endpoints called with the
// service-role key.
type FunctionsHandler struct {
	drainer emailDrainer
	sender  contactSender
}

func NewFunctionsHandler(drainer emailDrainer, sender contactSender) *FunctionsHandler {
	return &FunctionsHandler{drainer: drainer, sender: sender}
}

type drainResponse struct {
	Success bool `json:"success"`
	*service.DrainResult
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *FunctionsHandler) ProcessEmailQueue(w http.ResponseWriter, r *http.Request) {
	res, err := h.drainer.Drain(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("email queue drain failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}
	if res == nil {
		RespondJSON(w, http.StatusOK, messageResponse{Success: true, Message: service.NoPendingEmailsMessage})
		return
	}
	RespondJSON(w, http.StatusOK, drainResponse{Success: true, DrainResult: res})
}

type sendContactEmailRequest struct {
	Record  json.RawMessage `json:"record"`
	Payload json.RawMessage `json:"payload"`
}

// submission picks record over payload.
func (r sendContactEmailRequest) submission() (*domain.ContactSubmission, bool) {
	raw := r.Record
	if isAbsent(raw) {
		raw = r.Payload
	}
	if isAbsent(raw) {
		return nil, false
	}
	var sub domain.ContactSubmission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, false
	}
	return &sub, true
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (h *FunctionsHandler) SendContactEmail(w http.ResponseWriter, r *http.Request) {
	var req sendContactEmailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)).Decode(&req); err != nil {
		RespondAppError(w, ErrMalformedPayload, nil)
		return
	}

	sub, ok := req.submission()
	if !ok {
		RespondAppError(w, ErrMalformedPayload, nil)
		return
	}

	if err := h.sender.Send(r.Context(), *sub); err != nil {
		logging.FromContext(r.Context()).Error("contact email send failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Email sent successfully"})
}
