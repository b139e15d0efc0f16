package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/service"
)

type listingService interface {
	ListProperties(ctx context.Context, status string, limit, offset int) ([]domain.Property, int, error)
	GetProperty(ctx context.Context, id uuid.UUID) (*service.PropertyDetail, error)
	ListNews(ctx context.Context, limit, offset int) ([]domain.News, int, error)
}

type contactService interface {
	Submit(ctx context.Context, req service.ContactRequest) (*domain.EmailNotification, error)
}

type chatService interface {
	Reply(ctx context.Context, req service.ChatRequest) (*service.ChatReply, error)
}

// PublicHandler serves the website: listings, news, the contact form and
// the chat assistant.
type PublicHandler struct {
	listings listingService
	contacts contactService
	chat     chatService
}

func NewPublicHandler(listings listingService, contacts contactService, chat chatService) *PublicHandler {
	return &PublicHandler{listings: listings, contacts: contacts, chat: chat}
}

func (h *PublicHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	props, total, err := h.listings.ListProperties(r.Context(), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list properties", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondPage(w, toPropertyDTOs(props), total, page)
}

func (h *PublicHandler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	detail, err := h.listings.GetProperty(r.Context(), id)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, propertyDetailDTO{
		propertyDTO: toPropertyDTO(detail.Property),
		MapCenter:   detail.MapCenter,
	})
}

func (h *PublicHandler) ListNews(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	items, total, err := h.listings.ListNews(r.Context(), page.Limit, page.Offset)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list news", "error", err)
		RespondDomainError(w, err)
		return
	}
	dtos := make([]newsDTO, len(items))
	for i := range items {
		dtos[i] = toNewsDTO(&items[i])
	}
	RespondPage(w, dtos, total, page)
}

type contactResponse struct {
	ID      uuid.UUID `json:"id"`
	Message string    `json:"message"`
}

func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	n, err := h.contacts.Submit(r.Context(), req)
	if err != nil {
		logging.FromContext(r.Context()).Warn("contact submission rejected", "error", err)
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusCreated, contactResponse{
		ID:      n.ID,
		Message: "Gracias por contactarnos. Te responderemos pronto.",
	})
}

func (h *PublicHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req service.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	reply, err := h.chat.Reply(r.Context(), req)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondSuccess(w, http.StatusOK, reply)
}
