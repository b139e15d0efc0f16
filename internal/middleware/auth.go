package middleware

import (
	"net/http"
	"strings"

	"github.com/realtyhub/backoffice/internal/auth"
	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/handler"
	"github.com/realtyhub/backoffice/internal/logging"
)

// Auth validates the bearer token and stores the resulting session in the
// request context. Handlers read it back with auth.SessionFromContext.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r)
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}

			session, err := auth.ValidateToken(token, secret)
			if err != nil {
				logging.FromContext(r.Context()).Debug("rejected bearer token", "error", err)
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}

			ctx := auth.ContextWithSession(r.Context(), session)
			ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("user_id", session.UserID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects sessions whose role is not in roles. It must run
// after Auth.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := auth.SessionFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}
			for _, role := range roles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			handler.RespondAppError(w, handler.ErrForbidden, nil)
		})
	}
}

func bearerToken(r *http.Request) (string, *handler.AppError) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", handler.ErrMissingToken
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", handler.ErrInvalidToken
	}
	return token, nil
}
