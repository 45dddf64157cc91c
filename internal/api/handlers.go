// internal/api/handlers.go
package api

import (
	"context"
	"net/http"
	"time"

	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/copywriting"
	"copywriter/internal/models"

	"github.com/gin-gonic/gin"
)

// ==========================
// Auth
// ==========================

func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	user, err := s.accounts.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	public := user.Public()
	c.JSON(http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "Registration successful",
		User:    &public,
	})
}

func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	user, token, _, err := s.accounts.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	s.setSessionCookie(c, token, int(s.accounts.Issuer().TTL()/time.Second))
	public := user.Public()
	c.JSON(http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Login successful",
		User:    &public,
	})
}

// me answers {user: null} rather than 401 when there is no valid session.
func (s *Server) me(c *gin.Context) {
	session, err := s.sessionFrom(c)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	user := s.accounts.CurrentUser(c.Request.Context(), session)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) logout(c *gin.Context) {
	if session, err := s.sessionFrom(c); err == nil {
		if err := s.accounts.Logout(c.Request.Context(), session); err != nil {
			_ = c.Error(err)
		}
	}
	s.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// ==========================
// Generation
// ==========================

func (s *Server) generate(c *gin.Context) {
	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	resp, err := s.copy.Generate(c.Request.Context(), copywriting.SourceHTTP, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) aiGenerate(c *gin.Context) {
	var req models.AIGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, apperrors.NewInvalidInputError(err.Error()))
		return
	}

	resp, err := s.copy.AIGenerate(c.Request.Context(), copywriting.SourceHTTP, req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) checkAPIStatus(c *gin.Context) {
	status := "missing"
	if s.copy.BackendConfigured() {
		status = "configured"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"hasApiKey": s.cfg.APIs.GenAI.APIKey != "",
		"provider":  s.copy.BackendName(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ==========================
// Operations
// ==========================

func (s *Server) debugStore(c *gin.Context) {
	driver, count, err := s.accounts.StoreStats(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver, "userCount": count})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, check := range s.checks {
		if err := check.Ping(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "failed": failed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
