package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

// Session is the authenticated caller of a single request. It is built from
// the bearer token by the auth middleware and lives only in the request
// context; signing out is the client discarding its token.
type Session struct {
	UserID    uuid.UUID
	Email     string
	Role      domain.UserRole
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == domain.UserRoleAdmin
}

type sessionKey struct{}

func ContextWithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
