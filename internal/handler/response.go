package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/validation"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type paginatedData struct {
	Items  any `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondMessage(w http.ResponseWriter, status int, message string, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespondPage(w http.ResponseWriter, items any, total int, p Page) {
	RespondSuccess(w, http.StatusOK, paginatedData{
		Items:  items,
		Total:  total,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

func RespondDomainError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		RespondValidationError(w, fieldErrors(verr))
		return
	}

	var appErr *AppError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrInvalidStatus):
		appErr = ErrInvalidStatus
	case errors.Is(err, domain.ErrMalformedPayload):
		appErr = ErrMalformedPayload
	case errors.Is(err, domain.ErrProviderUnavailable):
		appErr = ErrProviderUnavailable
	case errors.Is(err, domain.ErrProviderRejected):
		appErr = ErrProviderRejected
	case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		appErr = ErrIdempotencyConflict
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}

func fieldErrors(verr *validation.Error) []FieldError {
	out := make([]FieldError, len(verr.Violations))
	for i, v := range verr.Violations {
		out[i] = FieldError{Field: v.Field, Message: v.Message}
	}
	return out
}
