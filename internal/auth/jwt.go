package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/realtyhub/backoffice/internal/domain"
)

const issuer = "realty-backoffice"

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// GenerateToken signs an HS256 token for user that expires after expiry.
func GenerateToken(user *domain.User, secret string, expiry time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(expiry)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   string(user.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies the signature and expiry and returns the session
// the token describes.
func ValidateToken(tokenString string, secret string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: invalid token claims")
	}

	userID, err := uuid.Parse(tc.UserID)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: invalid user_id in token: %w", err)
	}

	role := domain.UserRole(tc.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("ValidateToken: unknown role %q", tc.Role)
	}

	var expiresAt time.Time
	if tc.ExpiresAt != nil {
		expiresAt = tc.ExpiresAt.Time
	}

	return &Session{
		UserID:    userID,
		Email:     tc.Email,
		Role:      role,
		ExpiresAt: expiresAt,
	}, nil
}
