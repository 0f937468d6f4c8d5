package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrParse reports a malformed prompt file. The previous snapshot stays
	// in effect; the store never serves a partially parsed result.
	ErrParse = errors.New("prompt file parse error")

	// ErrDuplicateName is a parse error: two prompts share a name.
	ErrDuplicateName = fmt.Errorf("%w: duplicate prompt name", ErrParse)

	// ErrIO reports a prompt file that could not be read.
	ErrIO = errors.New("prompt file read error")
)

// promptDoc is the on-disk shape of a prompt file: a TOML document with an
// array of [[prompts]] tables.
type promptDoc struct {
	Prompts []promptEntry `toml:"prompts"`
}

type promptEntry struct {
	Name       string   `toml:"name"`
	Content    string   `toml:"content"`
	Parameters []string `toml:"parameters,omitempty"`
	Tags       []string `toml:"tags,omitempty"`
}

// ParsePrompts parses a TOML prompt document into validated Prompts.
// Parameters declared in the file are advisory; the returned prompts carry
// the parameters extracted from content by the placeholder grammar.
func ParsePrompts(data []byte) ([]Prompt, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var doc promptDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	seen := make(map[string]struct{}, len(doc.Prompts))
	prompts := make([]Prompt, 0, len(doc.Prompts))
	for i, entry := range doc.Prompts {
		if entry.Name == "" {
			return nil, fmt.Errorf("%w: prompt #%d has no name", ErrParse, i+1)
		}
		if entry.Content == "" {
			return nil, fmt.Errorf("%w: prompt %q has no content", ErrParse, entry.Name)
		}
		if _, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, entry.Name)
		}
		seen[entry.Name] = struct{}{}

		prompts = append(prompts, Prompt{
			Name:       entry.Name,
			Content:    entry.Content,
			Parameters: ExtractParameters(entry.Content),
			Tags:       entry.Tags,
		})
	}
	return prompts, nil
}

// SavePrompts writes prompts to path as a TOML document, atomically
// (write-to-temp + rename). Extracted parameters are written out so hand
// editors see them.
func SavePrompts(path string, prompts []Prompt) error {
	doc := promptDoc{Prompts: make([]promptEntry, len(prompts))}
	for i, p := range prompts {
		doc.Prompts[i] = promptEntry{
			Name:       p.Name,
			Content:    p.Content,
			Parameters: p.Parameters,
			Tags:       p.Tags,
		}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal prompts: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp prompt file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write prompts: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close prompt file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit prompt file: %w", err)
	}
	return nil
}
