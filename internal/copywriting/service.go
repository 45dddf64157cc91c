// internal/copywriting/service.go
package copywriting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"copywriter/internal/backend"
	"copywriter/internal/common/config"
	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
	"copywriter/internal/common/metrics"
	"copywriter/internal/common/observability"
	"copywriter/internal/common/validation"
	"copywriter/internal/engine"
	"copywriter/internal/models"
)

// Sources label where a generation request came from.
const (
	SourceHTTP = "http"
	SourceJob  = "job"
	SourceCLI  = "cli"
)

// Fallback reasons reported when an AI-mode request is served by the template engine.
const (
	FallbackNotConfigured = "backend_not_configured"
	FallbackTimeout       = "llm_timeout"
	FallbackFailed        = "llm_failed"
)

// Service validates generation requests and serves them from the template engine
// or, when asked and available, the remote backend.
type Service struct {
	engine   *engine.Engine
	backend  backend.Backend
	cfg      config.GenerationConfig
	generate *validation.Schema
	obs      *observability.Observability
	logger   logger.Logger
}

type Option func(*Service)

// WithBackend enables AI mode. A nil backend leaves it disabled.
func WithBackend(b backend.Backend) Option {
	return func(s *Service) { s.backend = b }
}

func WithObservability(obs *observability.Observability) Option {
	return func(s *Service) { s.obs = obs }
}

func WithEngine(e *engine.Engine) Option {
	return func(s *Service) { s.engine = e }
}

func NewService(cfg config.GenerationConfig, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		engine:   engine.New(),
		cfg:      cfg,
		generate: validation.GenerateSchema(cfg.MaxProductNameLength, cfg.MaxSellingPointLength),
		logger:   log.WithFields(map[string]interface{}{"component": "copywriting"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BackendConfigured reports whether AI mode is available.
func (s *Service) BackendConfigured() bool { return s.backend != nil }

// BackendName is the provider serving AI mode, or "" when none is.
func (s *Service) BackendName() string {
	if s.backend == nil {
		return ""
	}
	return s.backend.Name()
}

// Validate checks a request against the generate schema.
func (s *Service) Validate(req models.GenerateRequest) error {
	res, err := s.generate.Validate(req)
	if err != nil {
		return apperrors.NewInvalidInputError(err.Error())
	}
	if !res.Valid {
		return apperrors.NewInvalidInputError(res.Summary())
	}
	return nil
}

// Generate produces post copy. AI mode failures fall back to the template engine
// and say why in FallbackReason.
func (s *Service) Generate(ctx context.Context, source string, req models.GenerateRequest) (resp *models.GenerateResponse, err error) {
	start := time.Now()
	mode := models.ModeTemplate
	defer func() {
		s.obs.RecordGeneration(ctx, source, mode, time.Since(start), err)
	}()

	if err = s.Validate(req); err != nil {
		return nil, err
	}

	style := req.Style
	if strings.TrimSpace(style) == "" {
		style = s.cfg.DefaultStyle
	}

	var fallback string
	if req.Mode == models.ModeAI {
		resp, fallback = s.generateAI(ctx, req, style)
		if resp != nil {
			mode = models.ModeAI
			metrics.ObserveGeneration(mode, resp.Style, resp.ProductType, time.Since(start))
			return resp, nil
		}
		metrics.ObserveFallback(fallback)
	}

	result := s.engine.Generate(req.ProductName, req.SellingPoint, style)
	resp = fromResult(result)
	resp.FallbackReason = fallback
	metrics.ObserveGeneration(mode, resp.Style, resp.ProductType, time.Since(start))

	s.logger.Debug("template copy generated", map[string]interface{}{
		"source":      source,
		"style":       resp.Style,
		"productType": resp.ProductType,
	})
	return resp, nil
}

func (s *Service) generateAI(ctx context.Context, req models.GenerateRequest, style string) (*models.GenerateResponse, string) {
	if s.backend == nil {
		return nil, FallbackNotConfigured
	}

	key, _ := engine.ResolveStyle(style)
	productType := engine.Classify(req.ProductName).Type
	out, err := s.backend.Complete(ctx, backend.Request{
		Prompt:  copyPrompt(req.ProductName, req.SellingPoint, key),
		Context: fmt.Sprintf("Write in a %s tone.", strings.ToLower(string(key))),
	})
	if err != nil {
		reason := FallbackFailed
		if apperrors.HasCode(err, apperrors.ErrCodeLLMTimeout) {
			reason = FallbackTimeout
		}
		s.logger.Warn("ai generation failed, using templates", map[string]interface{}{
			"backend": s.backend.Name(),
			"reason":  reason,
			"error":   err,
		})
		return nil, reason
	}

	return &models.GenerateResponse{
		Status:      "success",
		Text:        out.Content,
		Titles:      []string{},
		Tags:        []string{},
		Style:       string(key),
		ProductType: string(productType),
		Mode:        models.ModeAI,
	}, nil
}

func copyPrompt(productName, sellingPoint string, style engine.StyleKey) string {
	return fmt.Sprintf(
		"Write a %s social-media post with three title options, a body and hashtags.\nProduct: %s\nSelling points: %s",
		strings.ToLower(string(style)), productName, sellingPoint,
	)
}

// AIGenerate forwards a free-form prompt to the backend.
func (s *Service) AIGenerate(ctx context.Context, source string, req models.AIGenerateRequest) (resp *models.AIGenerateResponse, err error) {
	start := time.Now()
	defer func() {
		s.obs.RecordGeneration(ctx, source, models.ModeAI, time.Since(start), err)
	}()

	res, err := validation.AIGenerateSchema.Validate(req)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if !res.Valid {
		return nil, apperrors.NewInvalidInputError(res.Summary())
	}
	if s.backend == nil {
		return nil, apperrors.NewBackendNotConfiguredError("")
	}

	out, err := s.backend.Complete(ctx, backend.Request{Prompt: req.Prompt, Context: req.Context})
	if err != nil {
		return nil, err
	}
	metrics.ObserveGeneration(models.ModeAI, "", "", time.Since(start))

	return &models.AIGenerateResponse{
		Success: true,
		Content: out.Content,
		Usage: models.AIUsage{
			PromptChars:     out.PromptChars,
			CompletionChars: out.CompletionChars,
		},
	}, nil
}

func fromResult(r engine.GenerationResult) *models.GenerateResponse {
	return &models.GenerateResponse{
		Status:      "success",
		Text:        r.Text,
		Titles:      append([]string(nil), r.Titles[:]...),
		Body:        r.Body,
		Tags:        r.Tags,
		Style:       string(r.Style),
		ProductType: string(r.ProductType),
		Mode:        models.ModeTemplate,
	}
}
