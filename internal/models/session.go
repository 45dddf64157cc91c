// internal/models/session.go
package models

import "time"

// Session is the verified content of a session token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Remaining is the time until expiry, never negative.
func (s *Session) Remaining() time.Duration {
	if d := time.Until(s.ExpiresAt); d > 0 {
		return d
	}
	return 0
}
