package preview

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates a leading YAML frontmatter block from the
// markdown body:
//
//	---
//	title: Notes
//	---
//	# Body
//
// Content without a well-formed block (missing closing delimiter, invalid
// YAML) is returned unchanged with nil metadata.
func SplitFrontmatter(content string) (map[string]any, string) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return nil, content
	}

	lines := strings.Split(normalized, "\n")
	closing := 0
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			closing = i
			break
		}
	}
	if closing == 0 {
		return nil, content
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:closing], "\n")), &meta); err != nil {
		return nil, content
	}
	if meta == nil {
		meta = map[string]any{}
	}

	return meta, strings.Join(lines[closing+1:], "\n")
}
