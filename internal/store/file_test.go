package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
[[prompts]]
name = "Greeting"
content = "Hello {name}"

[[prompts]]
name = "Bug Report"
content = "Steps to reproduce: ..."
tags = ["qa", "triage"]
`

func TestParsePrompts(t *testing.T) {
	prompts, err := ParsePrompts([]byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, prompts, 2)

	assert.Equal(t, "Greeting", prompts[0].Name)
	assert.Equal(t, "Hello {name}", prompts[0].Content)
	assert.Equal(t, []string{"name"}, prompts[0].Parameters)

	assert.Equal(t, "Bug Report", prompts[1].Name)
	assert.Nil(t, prompts[1].Parameters)
	assert.Equal(t, []string{"qa", "triage"}, prompts[1].Tags)
}

func TestParsePromptsEmptyDocument(t *testing.T) {
	for _, data := range []string{"", "   \n\t", "# only a comment\n"} {
		prompts, err := ParsePrompts([]byte(data))
		require.NoError(t, err)
		assert.Empty(t, prompts)
	}
}

func TestParsePromptsDeclaredParametersAreAdvisory(t *testing.T) {
	doc := `
[[prompts]]
name = "A"
content = "uses {real}"
parameters = ["declared", "stale"]
`
	prompts, err := ParsePrompts([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, prompts[0].Parameters)
}

func TestParsePromptsValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			"missing name",
			"[[prompts]]\ncontent = \"x\"\n",
			ErrParse,
		},
		{
			"missing content",
			"[[prompts]]\nname = \"A\"\n",
			ErrParse,
		},
		{
			"duplicate names",
			"[[prompts]]\nname = \"A\"\ncontent = \"1\"\n[[prompts]]\nname = \"A\"\ncontent = \"2\"\n",
			ErrDuplicateName,
		},
		{
			"malformed toml",
			"[[prompts\nname =",
			ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePrompts([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDuplicateNameIsAParseError(t *testing.T) {
	doc := "[[prompts]]\nname = \"A\"\ncontent = \"1\"\n[[prompts]]\nname = \"A\"\ncontent = \"2\"\n"
	_, err := ParsePrompts([]byte(doc))
	assert.ErrorIs(t, err, ErrParse)
}

func TestSavePromptsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.toml")
	original := []Prompt{
		{Name: "Greeting", Content: "Hello {name}", Parameters: []string{"name"}},
		{Name: "Sig", Content: "Best,\n{author}", Parameters: []string{"author"}, Tags: []string{"email"}},
	}

	require.NoError(t, SavePrompts(path, original))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	parsed, err := ParsePrompts(data)
	require.NoError(t, err)
	assert.Equal(t, original, parsed)
}

func TestSavePromptsIsAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.toml")
	require.NoError(t, SavePrompts(path, []Prompt{{Name: "A", Content: "x"}}))

	// No temp files left behind after a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prompts.toml", entries[0].Name())
}
