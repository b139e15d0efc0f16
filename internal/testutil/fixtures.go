package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/realtyhub/backoffice/internal/domain"
)

const TestPassword = "password123"

func SeedUser(t *testing.T, db *sql.DB, email string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test " + string(role),
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, role, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedProperty(t *testing.T, db *sql.DB, title string, price int64, status domain.PropertyStatus) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(
		`INSERT INTO properties (id, title, price, status) VALUES ($1, $2, $3, $4)`,
		id, title, decimal.NewFromInt(price), status,
	)
	if err != nil {
		t.Fatalf("seed property %s: %v", title, err)
	}
	return id
}

// SeedPendingEmail inserts a pending notification created at the given time.
func SeedPendingEmail(t *testing.T, db *sql.DB, sub domain.ContactSubmission, createdAt time.Time) uuid.UUID {
	t.Helper()

	payload, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("marshal submission: %v", err)
	}
	id := uuid.New()
	_, err = db.Exec(
		`INSERT INTO email_notifications (id, payload, status, created_at) VALUES ($1, $2, 'pending', $3)`,
		id, payload, createdAt,
	)
	if err != nil {
		t.Fatalf("seed pending email: %v", err)
	}
	return id
}

func GetEmailStatus(t *testing.T, db *sql.DB, id uuid.UUID) domain.EmailNotificationStatus {
	t.Helper()

	var status domain.EmailNotificationStatus
	if err := db.QueryRow(`SELECT status FROM email_notifications WHERE id = $1`, id).Scan(&status); err != nil {
		t.Fatalf("get email status %s: %v", id, err)
	}
	return status
}

func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	// table names come from test code only
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&count); err != nil {
		t.Fatalf("count rows in %s: %v", table, err)
	}
	return count
}
