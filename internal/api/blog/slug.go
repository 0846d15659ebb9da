package blog

import (
	"regexp"
	"strings"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	nonSlugChars   = regexp.MustCompile(`[^\w-]+`)
)

// DeriveSlug computes the URL slug for a post title: lowercase, each
// whitespace run collapsed to a single hyphen, and everything that is
// not a word character or hyphen stripped. Deterministic; legacy
// documents without a stored slug are resolved through the same
// function, so derived and persisted slugs always agree.
func DeriveSlug(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRuns.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}
