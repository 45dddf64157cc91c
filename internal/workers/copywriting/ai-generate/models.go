// internal/workers/copywriting/ai-generate/models.go
package aigenerate

type Input struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

type Output struct {
	Content         string `json:"content"`
	PromptChars     int    `json:"promptChars"`
	CompletionChars int    `json:"completionChars"`
}
