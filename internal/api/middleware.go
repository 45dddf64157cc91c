// internal/api/middleware.go
package api

import (
	"net/http"
	"time"

	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
	sessionKey      = "session"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("requestId", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics":
			log.Debug("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("requestId", c.GetString(requestIDKey)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"code":    apperrors.ErrCodeInternal,
			"error":   "Internal server error",
		})
	})
}

// requireSession rejects requests without a valid session cookie and stores the
// session on the context.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := s.sessionFrom(c)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if session := sessionOf(c); session == nil || session.Role != models.RoleAdmin {
			abortWithError(c, apperrors.NewForbiddenError("admin role required"))
			return
		}
		c.Next()
	}
}

func (s *Server) sessionFrom(c *gin.Context) (*models.Session, error) {
	token, err := c.Cookie(s.cfg.Auth.CookieName)
	if err != nil || token == "" {
		return nil, apperrors.NewSessionInvalidError("missing session cookie")
	}
	return s.accounts.Issuer().Verify(c.Request.Context(), token)
}

func sessionOf(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*models.Session)
	return session
}

func (s *Server) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.Auth.CookieName, token, maxAge, "/", "", s.cfg.App.IsProduction(), true)
}

// abortWithError writes the coded error body with the status its code maps to.
func abortWithError(c *gin.Context, err error) {
	std := apperrors.AsStandardError(err)
	_ = c.Error(err)
	body := gin.H{
		"success": false,
		"code":    std.Code,
		"error":   std.Message,
	}
	if std.Details != "" && std.Code != apperrors.ErrCodeInternal {
		body["details"] = std.Details
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(std.Code), body)
}
