// internal/accounts/service.go
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"copywriter/internal/common/auth"
	"copywriter/internal/common/config"
	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
	"copywriter/internal/common/metrics"
	"copywriter/internal/common/validation"
	"copywriter/internal/models"

	"github.com/google/uuid"
)

// Service implements registration, login and session lookups over a Store.
type Service struct {
	store  Store
	issuer *auth.SessionIssuer
	cfg    config.AuthConfig
	logger logger.Logger
	now    func() time.Time
}

func NewService(store Store, issuer *auth.SessionIssuer, cfg config.AuthConfig, log logger.Logger) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "accounts"}),
		now:    time.Now,
	}
}

func (s *Service) Store() Store { return s.store }

func (s *Service) Issuer() *auth.SessionIssuer { return s.issuer }

// Register creates a user after checking the email, password length and invitation code.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (user *models.User, err error) {
	defer func() { metrics.ObserveAuth("register", err) }()

	if err = checkSchema(validation.RegisterSchema, req); err != nil {
		return nil, err
	}
	email := models.NormalizeEmail(req.Email)
	code := strings.TrimSpace(req.InvitationCode)
	if !validation.ValidateEmail(email) {
		return nil, apperrors.NewInvalidEmailError(req.Email)
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, apperrors.NewWeakPasswordError(s.cfg.MinPasswordLength)
	}
	if maxLen := s.maxPasswordLength(); len(req.Password) > maxLen {
		return nil, apperrors.NewPasswordTooLongError(maxLen)
	}
	role, ok := s.roleFor(code)
	if !ok {
		return nil, apperrors.NewInvalidInvitationCodeError()
	}

	_, err = s.store.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.NewUserAlreadyExistsError(email)
	case !errors.Is(err, ErrUserNotFound):
		return nil, apperrors.NewQueryExecutionFailedError("find_user", err)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user = &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, apperrors.NewUserAlreadyExistsError(email)
		}
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("user registered", map[string]interface{}{
		"userId": user.ID,
		"role":   string(role),
		"driver": s.store.Driver(),
	})
	return user, nil
}

// checkSchema maps a schema failure to INVALID_INPUT listing every offending field.
func checkSchema(schema *validation.Schema, req interface{}) error {
	res, err := schema.Validate(req)
	if err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if !res.Valid {
		return apperrors.NewInvalidInputError(res.Summary())
	}
	return nil
}

func (s *Service) maxPasswordLength() int {
	if s.cfg.MaxPasswordLength <= 0 || s.cfg.MaxPasswordLength > auth.MaxPasswordBytes {
		return auth.MaxPasswordBytes
	}
	return s.cfg.MaxPasswordLength
}

// Login checks credentials, records the login and issues a session token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (user *models.User, token string, session *models.Session, err error) {
	defer func() { metrics.ObserveAuth("login", err) }()

	if err = checkSchema(validation.LoginSchema, req); err != nil {
		return nil, "", nil, err
	}
	email := models.NormalizeEmail(req.Email)

	user, err = s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", nil, apperrors.NewUserNotFoundError(email)
	}
	if err != nil {
		return nil, "", nil, apperrors.NewQueryExecutionFailedError("find_user", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, "", nil, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, "", nil, apperrors.NewInvalidCredentialsError()
	}

	at := s.now().UTC()
	count, err := s.store.RecordLogin(ctx, user.ID, at)
	if err != nil {
		return nil, "", nil, apperrors.NewQueryExecutionFailedError("record_login", err)
	}
	user.LastLogin = &at
	user.UsageCount = count

	token, session, err = s.issuer.Issue(user)
	if err != nil {
		return nil, "", nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("user logged in", map[string]interface{}{
		"userId":     user.ID,
		"usageCount": count,
	})
	return user, token, session, nil
}

// CurrentUser resolves the account behind a verified session. When the lookup
// fails the claims alone are returned.
func (s *Service) CurrentUser(ctx context.Context, session *models.Session) models.PublicUser {
	user, err := s.store.FindUserByEmail(ctx, session.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			s.logger.Warn("user lookup failed, answering from claims", map[string]interface{}{
				"error": err,
			})
		}
		return models.PublicUser{ID: session.UserID, Email: session.Email, Role: session.Role}
	}
	return user.Public()
}

// Logout revokes the session when a revocation store is configured.
func (s *Service) Logout(ctx context.Context, session *models.Session) (err error) {
	defer func() { metrics.ObserveAuth("logout", err) }()
	return s.issuer.Revoke(ctx, session)
}

// StoreStats reports the active driver and its user count.
func (s *Service) StoreStats(ctx context.Context) (string, int, error) {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return s.store.Driver(), 0, apperrors.NewQueryExecutionFailedError("count_users", err)
	}
	return s.store.Driver(), n, nil
}

func (s *Service) roleFor(code string) (models.Role, bool) {
	for _, ic := range s.cfg.InvitationCodes {
		if ic.Code == code {
			if ic.Role == string(models.RoleAdmin) {
				return models.RoleAdmin, true
			}
			return models.RoleUser, true
		}
	}
	return "", false
}
