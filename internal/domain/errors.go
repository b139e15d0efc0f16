package domain

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrMalformedPayload        = errors.New("malformed payload")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrNotClaimed              = errors.New("notification is not in processing state")
	ErrProviderUnavailable     = errors.New("upstream provider unavailable")
	ErrProviderRejected        = errors.New("upstream provider rejected request")
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")
)
