// internal/engine/features.go
package engine

import "strings"

// FeatureSet holds the first three selling points. Every slot is populated
// whenever the source string is non-empty.
type FeatureSet struct {
	Feature1 string `json:"feature1"`
	Feature2 string `json:"feature2"`
	Feature3 string `json:"feature3"`
}

// SplitSellingPoints splits on ASCII and fullwidth commas, trims each token and
// drops empty ones, preserving order.
func SplitSellingPoints(sellingPoint string) []string {
	parts := strings.FieldsFunc(sellingPoint, func(r rune) bool {
		return r == ',' || r == '，'
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// ParseFeatures derives a FeatureSet, chaining each missing feature back to the
// previous one. Features are trimmed tokens; the raw, untrimmed input is used
// only when it yields no non-empty token.
func ParseFeatures(sellingPoint string) FeatureSet {
	tokens := SplitSellingPoints(sellingPoint)

	fs := FeatureSet{Feature1: sellingPoint}
	if len(tokens) > 0 {
		fs.Feature1 = tokens[0]
	}
	fs.Feature2 = fs.Feature1
	if len(tokens) > 1 {
		fs.Feature2 = tokens[1]
	}
	fs.Feature3 = fs.Feature2
	if len(tokens) > 2 {
		fs.Feature3 = tokens[2]
	}
	return fs
}
