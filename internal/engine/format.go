// internal/engine/format.go
package engine

import (
	"strconv"
	"strings"
)

const (
	headerTitles = "=== Title Options ==="
	headerBody   = "=== Post Body ==="
	headerTags   = "=== Tags ==="
)

// Format lays out numbered titles, the body and the space-joined tags. The result
// is plain text; nothing is escaped.
func Format(titles []string, body string, tags []string) string {
	var b strings.Builder

	b.WriteString(headerTitles)
	b.WriteString("\n")
	for i, t := range titles {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(t)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(headerBody)
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")

	b.WriteString(headerTags)
	b.WriteString("\n")
	b.WriteString(strings.Join(tags, " "))

	return b.String()
}
