// internal/api/server.go
package api

import (
	"context"
	"net/http"

	"copywriter/internal/accounts"
	"copywriter/internal/common/config"
	"copywriter/internal/copywriting"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is anything /ready should check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Config      *config.Config
	Accounts    *accounts.Service
	Copywriting *copywriting.Service
	Logger      *zap.Logger
	// Checks are pinged by /ready, keyed by the name reported on failure.
	Checks map[string]Pinger
}

type Server struct {
	cfg      *config.Config
	accounts *accounts.Service
	copy     *copywriting.Service
	logger   *zap.Logger
	checks   map[string]Pinger
	router   *gin.Engine
}

func NewServer(deps Deps) *Server {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Server{
		cfg:      deps.Config,
		accounts: deps.Accounts,
		copy:     deps.Copywriting,
		logger:   log,
		checks:   deps.Checks,
		router:   gin.New(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router
	r.Use(requestID(), accessLog(s.logger), recovery(s.logger))

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/check-api-status", s.checkAPIStatus)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", s.me)
	authGroup.POST("/logout", s.logout)

	gated := api.Group("", s.requireSession())
	gated.POST("/generate", s.generate)
	gated.POST("/ai-generate", s.aiGenerate)
	gated.GET("/debug/store", requireAdmin(), s.debugStore)
}
