// internal/backend/chat.go
package backend

import (
	"context"
	"errors"
	"strings"
	"time"

	"copywriter/internal/common/config"
	commonhttp "copywriter/internal/common/http"
	"copywriter/internal/common/logger"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// ChatBackend talks to an OpenAI-compatible /chat/completions endpoint.
type ChatBackend struct {
	cfg     config.GenAIConfig
	client  *commonhttp.Client
	timeout time.Duration
	logger  logger.Logger
}

func NewChatBackend(cfg config.GenAIConfig, log logger.Logger) *ChatBackend {
	return &ChatBackend{
		cfg:     cfg,
		client:  commonhttp.NewClient(commonhttp.WithRetries(cfg.MaxRetries, 100*time.Millisecond)),
		timeout: timeoutOf(cfg),
		logger:  log.WithFields(map[string]interface{}{"backend": config.ProviderOpenAI, "model": cfg.Model}),
	}
}

func (b *ChatBackend) Name() string { return config.ProviderOpenAI }

func (b *ChatBackend) Close() error { return nil }

func (b *ChatBackend) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	body := chatRequest{
		Model: b.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt(req.Context)},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   b.cfg.MaxTokens,
		Temperature: b.cfg.Temperature,
	}
	headers := map[string]string{"Authorization": "Bearer " + b.cfg.APIKey}

	var resp chatResponse
	url := strings.TrimRight(b.cfg.BaseURL, "/") + "/chat/completions"
	if err := b.client.PostJSON(ctx, url, headers, body, &resp); err != nil {
		b.logger.Error("chat completion failed", map[string]interface{}{"error": err})
		return nil, classify(ctx, b.timeout, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, classify(ctx, b.timeout, errors.New("empty completion"))
	}

	content := resp.Choices[0].Message.Content
	b.logger.Info("chat completion succeeded", map[string]interface{}{
		"promptChars":     len([]rune(req.Prompt)),
		"completionChars": len([]rune(content)),
	})
	return completion(req, content), nil
}
