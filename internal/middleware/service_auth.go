package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/realtyhub/backoffice/internal/handler"
)

// ServiceAuth guards the internal function endpoints. The bearer token must
// equal the service-role key.
func ServiceAuth(serviceRoleKey string) func(http.Handler) http.Handler {
	key := []byte(serviceRoleKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, appErr := bearerToken(r)
			if appErr != nil {
				handler.RespondAppError(w, appErr, nil)
				return
			}
			if len(key) == 0 || subtle.ConstantTimeCompare([]byte(token), key) != 1 {
				handler.RespondAppError(w, handler.ErrInvalidToken, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
