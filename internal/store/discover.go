package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
)

// DefaultFileName is the prompt file created on first run.
const DefaultFileName = "default.toml"

// defaultContent seeds a fresh prompt file so the popup has something to
// show before the user writes their own.
const defaultContent = `# Prompt file. Each [[prompts]] table defines one snippet.
# Placeholders use {identifier} syntax.

[[prompts]]
name = "Example"
content = "This is an example prompt with a {param1} placeholder"
`

// Bootstrap ensures dir exists and contains a default prompt file, creating
// both when missing. Returns the default file path.
func Bootstrap(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create prompt dir: %w", err)
	}

	path := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat default prompt file: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to create default prompt file: %w", err)
	}
	return path, nil
}

// Discover walks root and returns every file matching pattern (doublestar
// syntax, default "**/*.toml"), sorted. Feeds the file-picker UI with
// candidate prompt files.
func Discover(root, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "**/*.toml"
	}

	var mu sync.Mutex
	var found []string

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		ok, matchErr := doublestar.Match(pattern, filepath.ToSlash(rel))
		if matchErr != nil {
			return matchErr
		}
		if ok {
			mu.Lock()
			found = append(found, path)
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
