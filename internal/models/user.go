// internal/models/user.go
package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is an account as stored. PasswordHash never leaves the server.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         Role       `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	UsageCount   int        `json:"usageCount" db:"usage_count"`
}

// PublicUser is the shape returned by the auth endpoints.
type PublicUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	UsageCount int        `json:"usageCount"`
}

func (u *User) Public() PublicUser {
	created := u.CreatedAt
	return PublicUser{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  &created,
		LastLogin:  u.LastLogin,
		UsageCount: u.UsageCount,
	}
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// NormalizeEmail trims and lower-cases an address; accounts are keyed by the result.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
