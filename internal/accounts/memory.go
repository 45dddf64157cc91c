// internal/accounts/memory.go
package accounts

import (
	"context"
	"sync"
	"time"

	"copywriter/internal/common/config"
	"copywriter/internal/models"
)

// MemoryStore keeps accounts in process memory. Data is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}
	cp := *user
	s.byEmail[cp.Email] = &cp
	s.byID[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) RecordLogin(_ context.Context, userID string, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return 0, ErrUserNotFound
	}
	t := at
	u.LastLogin = &t
	u.UsageCount++
	return u.UsageCount, nil
}

func (s *MemoryStore) CountUsers(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Driver() string { return config.DriverMemory }
