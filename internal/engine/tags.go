// internal/engine/tags.go
package engine

import "strings"

// MaxTags bounds the assembled tag list.
const MaxTags = 5

const (
	tagCuratedPick = "#CuratedPick"
	tagWorthTrying = "#WorthTrying"
)

// AssembleTags builds the base tags, appends the style's own tags and keeps the
// first MaxTags. The first entry is always "#" + productName.
func AssembleTags(productName, feature1 string, style StyleKey) []string {
	profile := GetStyle(string(style))

	tags := []string{
		"#" + productName,
		tagCuratedPick,
		tagWorthTrying,
		highlightTag(profile.key),
		"#" + strings.Join(strings.Fields(feature1), ""),
	}
	tags = append(tags, profile.tags...)

	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}
