package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/realtyhub/backoffice/internal/handler"
	"github.com/realtyhub/backoffice/internal/logging"
	"github.com/realtyhub/backoffice/internal/repository"
)

type idempotencyRepository interface {
	Get(ctx context.Context, key, scope string) (*repository.IdempotencyCacheEntry, error)
	Set(ctx context.Context, entry *repository.IdempotencyCacheEntry) error
}

const (
	idempotencyTTL = 24 * time.Hour
	maxBodyBytes   = 1 << 20
)

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key within scope. Requests without the header pass through.
// Only 2xx responses are stored, so a failed attempt can be retried with the
// same key.
func Idempotency(repo idempotencyRepository, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := logging.FromContext(r.Context()).With("idempotency_key", key)

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				handler.RespondAppError(w, handler.ErrPayloadTooLarge, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.RequestURI(), body)

			cached, err := repo.Get(r.Context(), key, scope)
			if err != nil {
				log.Error("idempotency cache lookup failed", "error", err)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}

			if cached != nil {
				if cached.RequestHash != reqHash {
					handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
					return
				}

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.ResponseBody); err != nil {
					log.Error("failed to write idempotent replay", "error", err)
				}
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.statusCode < 200 || rec.statusCode >= 300 {
				return
			}

			now := time.Now().UTC()
			entry := &repository.IdempotencyCacheEntry{
				Key:          key,
				Scope:        scope,
				RequestHash:  reqHash,
				StatusCode:   rec.statusCode,
				ResponseBody: rec.body.Bytes(),
				CreatedAt:    now,
				ExpiresAt:    now.Add(idempotencyTTL),
			}
			if err := repo.Set(context.WithoutCancel(r.Context()), entry); err != nil {
				log.Error("idempotency cache store failed", "error", err)
			}
		})
	}
}

func computeHash(method, uri string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(uri))
	h.Write(body)
	return fmt.Sprintf("%x", h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
