// internal/common/auth/session.go
package auth

import (
	"context"
	"fmt"
	"time"

	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuerName = "copywriter"

// Claims is the JWT payload of a session token.
type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// SessionIssuer signs and verifies HS256 session tokens. revocations may be nil,
// in which case logout only clears the client cookie.
type SessionIssuer struct {
	secret      []byte
	ttl         time.Duration
	revocations RevocationStore
	now         func() time.Time
}

func NewSessionIssuer(secret string, ttl time.Duration, revocations RevocationStore) *SessionIssuer {
	return &SessionIssuer{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		now:         time.Now,
	}
}

func (s *SessionIssuer) TTL() time.Duration { return s.ttl }

// RevocationEnabled reports whether logout invalidates tokens server-side.
func (s *SessionIssuer) RevocationEnabled() bool { return s.revocations != nil }

// Issue signs a token for user.
func (s *SessionIssuer) Issue(user *models.User) (string, *models.Session, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuerName,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims.session(), nil
}

// Verify parses and checks a token. Any failure is a SESSION_INVALID error except
// revocation store outages, which are SESSION_STORE_FAILED.
func (s *SessionIssuer) Verify(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, apperrors.NewSessionInvalidError("missing token")
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.NewSessionInvalidError(err.Error())
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.NewSessionStoreFailedError(err)
		}
		if revoked {
			return nil, apperrors.NewSessionInvalidError("token revoked")
		}
	}

	return claims.session(), nil
}

// Revoke blacklists the session until its own expiry.
func (s *SessionIssuer) Revoke(ctx context.Context, session *models.Session) error {
	if s.revocations == nil || session == nil || session.ID == "" {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.revocations.Revoke(ctx, session.ID, ttl); err != nil {
		return apperrors.NewSessionStoreFailedError(err)
	}
	return nil
}

func (c *Claims) session() *models.Session {
	out := &models.Session{
		ID:     c.ID,
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
