package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladislavRudakoff/PromptTool/internal/store"
)

func snapshotOf(gen uint64, prompts ...store.Prompt) *store.Snapshot {
	return &store.Snapshot{Generation: gen, Prompts: prompts}
}

func names(prompts []store.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.Name
	}
	return out
}

func TestQuerySpecExamples(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Greeting", Content: "Hello {name}"},
		store.Prompt{Name: "Bug Report", Content: "Steps to reproduce: ..."},
	))

	assert.Equal(t, []string{"Greeting"}, names(ix.Query("hel")))
	assert.Equal(t, []string{"Bug Report"}, names(ix.Query("report")))
	assert.Empty(t, ix.Query("xyz"))
}

func TestQueryEmptyYieldsNothing(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Greeting", Content: "Hello"},
	))

	assert.Empty(t, ix.Query(""))
	assert.Empty(t, ix.Query("   "))
	assert.Empty(t, ix.Query("\t\n"))

	empty := Build(snapshotOf(0))
	assert.Empty(t, empty.Query(""))
}

func TestQueryRankingTiers(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Review notes", Content: "mentions sig here"},          // content substring
		store.Prompt{Name: "Email sig", Content: "Best regards"},                  // name substring
		store.Prompt{Name: "sig block", Content: "..."},                           // name prefix
	))

	got := names(ix.Query("sig"))
	assert.Equal(t, []string{"sig block", "Email sig", "Review notes"}, got)
}

func TestQueryTiesKeepSnapshotOrder(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "deploy backend", Content: "..."},
		store.Prompt{Name: "deploy frontend", Content: "..."},
		store.Prompt{Name: "deploy docs", Content: "..."},
	))

	got := names(ix.Query("deploy"))
	assert.Equal(t, []string{"deploy backend", "deploy frontend", "deploy docs"}, got)

	// Deterministic across repeated runs.
	for i := 0; i < 5; i++ {
		assert.Equal(t, got, names(ix.Query("deploy")))
	}
}

func TestQueryAllTermsMustMatch(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Standup", Content: "What I did yesterday and today"},
		store.Prompt{Name: "Retro", Content: "What went well yesterday"},
	))

	assert.Equal(t, []string{"Standup"}, names(ix.Query("yesterday today")))
	assert.ElementsMatch(t, []string{"Standup", "Retro"}, names(ix.Query("yesterday")))
	assert.Empty(t, ix.Query("yesterday nowhere"))
}

func TestQueryMatchesTags(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Incident form", Content: "Summary: ...", Tags: []string{"oncall", "urgent"}},
		store.Prompt{Name: "Weekly update", Content: "This week: ..."},
	))

	assert.Equal(t, []string{"Incident form"}, names(ix.Query("oncall")))
}

func TestQueryCaseInsensitive(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Greeting", Content: "Hello {name}"},
	))

	assert.Equal(t, []string{"Greeting"}, names(ix.Query("GREET")))
	assert.Equal(t, []string{"Greeting"}, names(ix.Query("hello")))
}

func TestQueryPunctuationHeavyFallsBackToSubstring(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "Shrug", Content: `¯\_(ツ)_/¯`},
		store.Prompt{Name: "Plain", Content: "nothing special"},
	))

	assert.Equal(t, []string{"Shrug"}, names(ix.Query(`(ツ)`)))
}

func TestQueryFuzzyTierComesLast(t *testing.T) {
	ix := Build(snapshotOf(1,
		store.Prompt{Name: "changelog", Content: "..."}, // fuzzy for "chlog"
		store.Prompt{Name: "chlog template", Content: "..."},
	))

	got := names(ix.Query("chlog"))
	require.Len(t, got, 2)
	assert.Equal(t, "chlog template", got[0], "exact prefix beats fuzzy")
	assert.Equal(t, "changelog", got[1])
}

func TestQueryResultsAreSubsetOfSnapshot(t *testing.T) {
	snap := snapshotOf(1,
		store.Prompt{Name: "Greeting", Content: "Hello {name}"},
		store.Prompt{Name: "Bug Report", Content: "Steps to reproduce: ..."},
		store.Prompt{Name: "Sig", Content: "Best, {author}"},
	)
	ix := Build(snap)

	inSnapshot := make(map[string]bool)
	for _, p := range snap.Prompts {
		inSnapshot[p.Name] = true
	}

	for _, q := range []string{"e", "re", "best", "sig", "hello name"} {
		for _, p := range ix.Query(q) {
			assert.True(t, inSnapshot[p.Name], "query %q returned %q not in snapshot", q, p.Name)
		}
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "name"}, Tokenize("Hello {name}"))
	assert.Equal(t, []string{"steps", "to", "reproduce"}, Tokenize("Steps to reproduce: ..."))
	assert.Empty(t, Tokenize("..."))
}
