// internal/accounts/store.go
package accounts

import (
	"context"
	"errors"
	"time"

	"copywriter/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Store persists user accounts. Emails are passed already normalised.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	// RecordLogin stamps lastLogin and increments usageCount, returning the new count.
	RecordLogin(ctx context.Context, userID string, at time.Time) (int, error)
	CountUsers(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Driver() string
}
