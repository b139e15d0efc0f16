package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/auth"
	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/service"
)

type adminService interface {
	ListProperties(ctx context.Context, status string, limit, offset int) ([]domain.Property, int, error)
	UpdatePropertyStatus(ctx context.Context, id uuid.UUID, status domain.PropertyStatus) (*domain.Property, error)
	DeleteProperty(ctx context.Context, id uuid.UUID) error
	CreateNews(ctx context.Context, req service.NewsPayload) (*domain.News, error)
	DeleteNews(ctx context.Context, id uuid.UUID) error
	ListWebhookEvents(ctx context.Context, limit, offset int) ([]domain.WebhookEvent, int, error)
	ListEmailNotifications(ctx context.Context, status string, limit, offset int) ([]domain.EmailNotification, int, error)
}

type AdminHandler struct {
	admin   adminService
	drainer emailDrainer
}

func NewAdminHandler(admin adminService, drainer emailDrainer) *AdminHandler {
	return &AdminHandler{admin: admin, drainer: drainer}
}

func (h *AdminHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}
	props, total, err := h.admin.ListProperties(r.Context(), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	RespondPage(w, toPropertyDTOs(props), total, page)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (r updateStatusRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "required"})
	} else if !domain.PropertyStatus(r.Status).IsValid() {
		errs = append(errs, FieldError{Field: "status", Message: "must be one of: available, sold, rented, reserved"})
	}
	return errs
}

func (h *AdminHandler) UpdatePropertyStatus(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	p, err := h.admin.UpdatePropertyStatus(r.Context(), id, domain.PropertyStatus(req.Status))
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	h.audit(r, "property status changed", "property_id", id, "status", req.Status)
	RespondSuccess(w, http.StatusOK, toPropertyDTO(p))
}

func (h *AdminHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if err := h.admin.DeleteProperty(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	h.audit(r, "property deleted", "property_id", id)
	RespondMessage(w, http.StatusOK, "Property deleted", nil)
}

func (h *AdminHandler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req service.NewsPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	n, err := h.admin.CreateNews(r.Context(), req)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	h.audit(r, "news created", "news_id", n.ID)
	RespondSuccess(w, http.StatusCreated, toNewsDTO(n))
}

func (h *AdminHandler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, appErr := idFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}
	if err := h.admin.DeleteNews(r.Context(), id); err != nil {
		RespondDomainError(w, err)
		return
	}
	h.audit(r, "news deleted", "news_id", id)
	RespondMessage(w, http.StatusOK, "News deleted", nil)
}

func (h *AdminHandler) ListWebhookEvents(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}
	events, total, err := h.admin.ListWebhookEvents(r.Context(), page.Limit, page.Offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	dtos := make([]webhookEventDTO, len(events))
	for i := range events {
		dtos[i] = toWebhookEventDTO(&events[i])
	}
	RespondPage(w, dtos, total, page)
}

func (h *AdminHandler) ListEmailNotifications(w http.ResponseWriter, r *http.Request) {
	page, fields := parsePage(r)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}
	items, total, err := h.admin.ListEmailNotifications(r.Context(), r.URL.Query().Get("status"), page.Limit, page.Offset)
	if err != nil {
		RespondDomainError(w, err)
		return
	}
	dtos := make([]emailNotificationDTO, len(items))
	for i := range items {
		dtos[i] = toEmailNotificationDTO(&items[i])
	}
	RespondPage(w, dtos, total, page)
}

func (h *AdminHandler) DrainEmailQueue(w http.ResponseWriter, r *http.Request) {
	res, err := h.drainer.Drain(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("manual email queue drain failed", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}
	h.audit(r, "email queue drained manually")
	if res == nil {
		RespondMessage(w, http.StatusOK, service.NoPendingEmailsMessage, nil)
		return
	}
	RespondSuccess(w, http.StatusOK, res)
}

// audit logs an admin mutation against the acting session.
func (h *AdminHandler) audit(r *http.Request, msg string, args ...any) {
	log := logging.FromContext(r.Context())
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		log = log.With("actor_email", s.Email, "actor_role", s.Role)
	}
	log.Info(msg, args...)
}
