package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
)

func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRoleEditor
}

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
}
