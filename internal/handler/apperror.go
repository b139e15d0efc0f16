package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "Insufficient permissions"}
	ErrAccountSuspended   = &AppError{http.StatusForbidden, "ACCOUNT_SUSPENDED", "Account is suspended"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrInvalidID          = &AppError{http.StatusBadRequest, "INVALID_ID", "Invalid resource id"}
	ErrInvalidStatus      = &AppError{http.StatusBadRequest, "INVALID_STATUS", "Invalid status value"}
	ErrPayloadTooLarge    = &AppError{http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrMethodNotAllowed   = &AppError{http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"}
	ErrRateLimited        = &AppError{http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, please slow down"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	// Function endpoints answer unparseable bodies with 500.
	ErrMalformedPayload = &AppError{http.StatusInternalServerError, "MALFORMED_PAYLOAD", "Request body could not be parsed"}

	ErrProviderUnavailable = &AppError{http.StatusInternalServerError, "PROVIDER_UNAVAILABLE", "Email provider is unavailable"}
	ErrProviderRejected    = &AppError{http.StatusInternalServerError, "PROVIDER_REJECTED", "Email provider rejected the message"}
	ErrIdempotencyConflict = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
)
