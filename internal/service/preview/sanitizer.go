package preview

import (
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer removes dangerous HTML from rendered previews.
// Thread-safe for concurrent use.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer with the UGC policy plus the class
// attributes syntax highlighters emit on code blocks and heading anchors.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")

	return &Sanitizer{policy: policy}
}

// Sanitize strips scripts, event handlers and javascript: URLs while
// keeping formatting, headings, lists, links, tables and code.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
