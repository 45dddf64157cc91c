// internal/backend/backend.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"copywriter/internal/common/config"
	apperrors "copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
)

// Request is one free-form generation call.
type Request struct {
	Prompt  string
	Context string
}

// Completion is the text a backend produced, with character counts for usage reporting.
type Completion struct {
	Content         string
	PromptChars     int
	CompletionChars int
}

// Backend is a remote text generator. Errors are *errors.StandardError with code
// LLM_TIMEOUT or LLM_SYNTHESIS_FAILED.
type Backend interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
	Name() string
	Close() error
}

// SystemPrompt frames the user's prompt for social-media copy.
func SystemPrompt(context string) string {
	context = strings.TrimSpace(context)
	if context == "" {
		return "You are a professional social-media copywriting assistant. Produce engaging, shareable post copy."
	}
	return fmt.Sprintf("You are a professional social-media copywriting assistant. %s Produce engaging, shareable post copy.", context)
}

// New builds the backend selected by cfg.Provider. An unconfigured section
// returns a BACKEND_NOT_CONFIGURED error.
func New(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (Backend, error) {
	if !cfg.Configured() {
		return nil, apperrors.NewBackendNotConfiguredError(cfg.Provider)
	}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewChatBackend(cfg, log), nil
	case config.ProviderGemini:
		return NewGeminiBackend(ctx, cfg, log)
	default:
		return nil, apperrors.NewBackendNotConfiguredError(cfg.Provider)
	}
}

// classify turns a call failure into the coded error callers expect.
func classify(ctx context.Context, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.NewLLMTimeoutError(timeout)
	}
	return apperrors.NewLLMSynthesisFailedError(err)
}

const defaultTimeout = 60 * time.Second

func timeoutOf(cfg config.GenAIConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return defaultTimeout
	}
	return config.GetDuration(cfg.Timeout)
}

func completion(req Request, content string) *Completion {
	return &Completion{
		Content:         content,
		PromptChars:     len([]rune(req.Prompt)),
		CompletionChars: len([]rune(content)),
	}
}
