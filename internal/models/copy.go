// internal/models/copy.go
package models

// Generation modes.
const (
	ModeTemplate = "template"
	ModeAI       = "ai"
)

type GenerateRequest struct {
	ProductName  string `json:"productName"`
	SellingPoint string `json:"sellingPoint"`
	Style        string `json:"style"`
	Mode         string `json:"mode,omitempty"`
}

type GenerateResponse struct {
	Status         string   `json:"status"`
	Text           string   `json:"text"`
	Titles         []string `json:"titles"`
	Body           string   `json:"body,omitempty"`
	Tags           []string `json:"tags"`
	Style          string   `json:"style"`
	ProductType    string   `json:"productType,omitempty"`
	Mode           string   `json:"mode"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
}

type AIGenerateRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context"`
}

type AIGenerateResponse struct {
	Success bool    `json:"success"`
	Content string  `json:"content"`
	Usage   AIUsage `json:"usage"`
}

type AIUsage struct {
	PromptChars     int `json:"promptChars"`
	CompletionChars int `json:"completionChars"`
}
