// internal/common/validation/payloads.go
package validation

import "fmt"

// nonBlank rejects empty and whitespace-only strings.
const nonBlank = `"type": "string", "minLength": 1, "pattern": "\\S"`

// GenerateSchema validates {productName, sellingPoint, style, mode}.
func GenerateSchema(maxProductName, maxSellingPoint int) *Schema {
	return mustCompile("generate", fmt.Sprintf(`{
  "type": "object",
  "required": ["productName", "sellingPoint"],
  "properties": {
    "productName":  {%s, "maxLength": %d},
    "sellingPoint": {%s, "maxLength": %d},
    "style":        {"type": "string"},
    "mode":         {"type": "string", "enum": ["", "template", "ai"]}
  }
}`, nonBlank, maxProductName, nonBlank, maxSellingPoint))
}

// AIGenerateSchema validates {prompt, context}.
var AIGenerateSchema = mustCompile("ai-generate", `{
  "type": "object",
  "required": ["prompt"],
  "properties": {
    "prompt":  {`+nonBlank+`, "maxLength": 4000},
    "context": {"type": "string", "maxLength": 4000}
  }
}`)

// RegisterSchema validates presence only; format rules return their own error codes.
var RegisterSchema = mustCompile("register", `{
  "type": "object",
  "required": ["email", "password", "invitationCode"],
  "properties": {
    "email":          {`+nonBlank+`},
    "password":       {"type": "string", "minLength": 1},
    "invitationCode": {`+nonBlank+`}
  }
}`)

var LoginSchema = mustCompile("login", `{
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email":    {`+nonBlank+`},
    "password": {"type": "string", "minLength": 1}
  }
}`)
