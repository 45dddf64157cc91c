// internal/backend/gemini.go
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

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend calls Google's Gemini models through the genai SDK.
type GeminiBackend struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
	logger  logger.Logger
}

func NewGeminiBackend(ctx context.Context, cfg config.GenAIConfig, log logger.Logger) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, apperrors.NewLLMSynthesisFailedError(fmt.Errorf("create gemini client: %w", err))
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if cfg.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	}

	return &GeminiBackend{
		client:  client,
		model:   model,
		timeout: timeoutOf(cfg),
		logger:  log.WithFields(map[string]interface{}{"backend": config.ProviderGemini, "model": cfg.Model}),
	}, nil
}

func (b *GeminiBackend) Name() string { return config.ProviderGemini }

func (b *GeminiBackend) Close() error { return b.client.Close() }

func (b *GeminiBackend) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	// GenerativeModel is shared; the system instruction travels with the prompt.
	prompt := SystemPrompt(req.Context) + "\n\n" + req.Prompt
	resp, err := b.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		b.logger.Error("gemini generation failed", map[string]interface{}{"error": err})
		return nil, classify(ctx, b.timeout, err)
	}

	content, err := textOf(resp)
	if err != nil {
		return nil, classify(ctx, b.timeout, err)
	}
	return completion(req, content), nil
}

// textOf concatenates the text parts of the first candidate.
func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no candidates returned")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", errors.New("empty completion")
	}
	return sb.String(), nil
}
