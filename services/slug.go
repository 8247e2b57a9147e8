package services

import (
	"strings"
	"unicode"
)

// StorySlug lower-cases the title and replaces every run of whitespace with a
// hyphen. Punctuation is kept, so the result is not always URL safe, and two
// stories may share a slug.
func StorySlug(title string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
