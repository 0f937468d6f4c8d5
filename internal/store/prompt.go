package store

import "regexp"

// Prompt is a named reusable text snippet with optional placeholder
// parameters and tags. Prompts are immutable once loaded; a reload replaces
// the whole snapshot, never individual fields.
type Prompt struct {
	Name       string   `json:"name" toml:"name"`
	Content    string   `json:"content" toml:"content"`
	Parameters []string `json:"parameters" toml:"parameters,omitempty"`
	Tags       []string `json:"tags,omitempty" toml:"tags,omitempty"`
}

// placeholderPattern is the token grammar for parameters embedded in prompt
// content: {identifier} where identifier is alphanumeric or underscore.
var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// ExtractParameters returns the placeholder identifiers found in content, in
// order of first appearance with duplicates collapsed.
func ExtractParameters(content string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	var params []string
	for _, m := range matches {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		params = append(params, name)
	}
	return params
}
