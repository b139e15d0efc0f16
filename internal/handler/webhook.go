package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
)

const maxWebhookBodyBytes = 1 << 20

type webhookService interface {
	Handle(ctx context.Context, typ domain.WebhookType, raw json.RawMessage) (*domain.WebhookEvent, error)
}

type WebhookHandler struct {
	webhooks webhookService
}

func NewWebhookHandler(webhooks webhookService) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

// Handle serves /functions/v1/webhook-handler?type=. It is mounted without a
// method pattern so that other methods receive the JSON 405 envelope.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		RespondAppError(w, ErrMethodNotAllowed, nil)
		return
	}

	log := logging.FromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondAppError(w, ErrPayloadTooLarge, nil)
			return
		}
		RespondAppError(w, ErrMalformedPayload, nil)
		return
	}
	if !json.Valid(body) {
		RespondAppError(w, ErrMalformedPayload, nil)
		return
	}

	typ := domain.WebhookType(r.URL.Query().Get("type"))
	event, err := h.webhooks.Handle(r.Context(), typ, body)
	if err != nil {
		log.Error("webhook processing failed", "type", typ, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondMessage(w, http.StatusOK, "Webhook processed successfully", toWebhookEventDTO(event))
}
