// internal/workers/copywriting/generate-copy/models.go
package generatecopy

import "copywriter/internal/models"

type Input struct {
	ProductName  string `json:"productName"`
	SellingPoint string `json:"sellingPoint"`
	Style        string `json:"style,omitempty"`
	Mode         string `json:"mode,omitempty"`
}

func (in *Input) request() models.GenerateRequest {
	return models.GenerateRequest{
		ProductName:  in.ProductName,
		SellingPoint: in.SellingPoint,
		Style:        in.Style,
		Mode:         in.Mode,
	}
}

// Output becomes the process variables of the completed job.
type Output struct {
	Titles         []string `json:"titles"`
	Body           string   `json:"body"`
	Tags           []string `json:"tags"`
	Text           string   `json:"text"`
	Style          string   `json:"style"`
	ProductType    string   `json:"productType"`
	Mode           string   `json:"mode"`
	FallbackReason string   `json:"fallbackReason,omitempty"`
}

func outputFrom(resp *models.GenerateResponse) *Output {
	return &Output{
		Titles:         resp.Titles,
		Body:           resp.Body,
		Tags:           resp.Tags,
		Text:           resp.Text,
		Style:          resp.Style,
		ProductType:    resp.ProductType,
		Mode:           resp.Mode,
		FallbackReason: resp.FallbackReason,
	}
}
