package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtyhub/backoffice/internal/auth"
	"github.com/realtyhub/backoffice/internal/domain"
	"github.com/realtyhub/backoffice/internal/logging"
)

type userReader interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type AuthHandler struct {
	users     userReader
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(users userReader, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "required"})
	}
	if r.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "required"})
	}
	return errs
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userDTO   `json:"user"`
}

type userDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrInvalidCredentials, nil)
			return
		}
		RespondDomainError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		RespondAppError(w, ErrInvalidCredentials, nil)
		return
	}

	if user.Status != domain.UserStatusActive {
		RespondAppError(w, ErrAccountSuspended, nil)
		return
	}

	token, expiresAt, err := auth.GenerateToken(user, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to sign token", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	logging.FromContext(r.Context()).Info("admin login", "user_id", user.ID, "role", user.Role)
	RespondSuccess(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: userDTO{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	})
}

type sessionDTO struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session echoes the caller's session. Mounted behind Auth.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}
	RespondSuccess(w, http.StatusOK, sessionDTO{
		UserID:    s.UserID,
		Email:     s.Email,
		Role:      string(s.Role),
		ExpiresAt: s.ExpiresAt,
	})
}
