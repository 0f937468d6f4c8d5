// Package search answers interactive prompt queries.
//
// An Index is derived from exactly one store snapshot and is disposable: it
// is rebuilt on every reload and never outlives its generation. Matching
// combines an inverted term index with a case-insensitive substring fallback
// so short and punctuation-heavy queries still hit.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/VladislavRudakoff/PromptTool/internal/store"
)

// Result tiers, most relevant first. Ties within a tier keep snapshot order
// so results are deterministic.
const (
	tierNamePrefix = iota
	tierNameSubstring
	tierContent
	tierFuzzy
)

// Index answers queries against one prompt snapshot generation.
type Index struct {
	generation uint64
	prompts    []store.Prompt
	names      []string         // lowercased prompt names
	contents   []string         // lowercased prompt contents
	terms      map[string][]int // term -> ascending prompt indexes
}

// Build constructs an index from a snapshot. Cost is linear in total
// content length.
func Build(snap *store.Snapshot) *Index {
	ix := &Index{
		generation: snap.Generation,
		prompts:    snap.Prompts,
		names:      make([]string, len(snap.Prompts)),
		contents:   make([]string, len(snap.Prompts)),
		terms:      make(map[string][]int),
	}

	for i, p := range snap.Prompts {
		ix.names[i] = strings.ToLower(p.Name)
		ix.contents[i] = strings.ToLower(p.Content)

		seen := make(map[string]struct{})
		add := func(text string) {
			for _, term := range Tokenize(text) {
				if _, dup := seen[term]; dup {
					continue
				}
				seen[term] = struct{}{}
				ix.terms[term] = append(ix.terms[term], i)
			}
		}
		add(p.Name)
		add(p.Content)
		for _, tag := range p.Tags {
			add(tag)
		}
	}
	return ix
}

// Generation returns the snapshot generation this index was built from.
func (ix *Index) Generation() uint64 {
	return ix.generation
}

// Query returns matching prompts, most relevant first. The empty query
// yields no results, matching the UI contract of hiding the list when the
// input is empty.
func (ix *Index) Query(text string) []store.Prompt {
	q := strings.ToLower(strings.TrimSpace(text))
	if q == "" {
		return nil
	}

	tiers := make(map[int]int, 8) // prompt index -> best tier

	// Substring tiers over name and content.
	for i := range ix.prompts {
		switch {
		case strings.HasPrefix(ix.names[i], q):
			tiers[i] = tierNamePrefix
		case strings.Contains(ix.names[i], q):
			tiers[i] = tierNameSubstring
		case strings.Contains(ix.contents[i], q):
			tiers[i] = tierContent
		}
	}

	// Term tier: every tokenized query term present in the prompt's term
	// set (name, content or tags). Posting-list intersection keeps this
	// proportional to the candidate set.
	for _, i := range ix.termMatches(q) {
		if _, ok := tiers[i]; !ok {
			tiers[i] = tierContent
		}
	}

	type scored struct {
		idx  int
		tier int
	}
	results := make([]scored, 0, len(tiers))
	for i, tier := range tiers {
		results = append(results, scored{idx: i, tier: tier})
	}

	// Fuzzy fallback over names for anything not already matched.
	for _, r := range fuzzy.RankFindFold(q, ix.origNames()) {
		if _, ok := tiers[r.OriginalIndex]; ok {
			continue
		}
		tiers[r.OriginalIndex] = tierFuzzy
		results = append(results, scored{idx: r.OriginalIndex, tier: tierFuzzy})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].tier != results[b].tier {
			return results[a].tier < results[b].tier
		}
		return results[a].idx < results[b].idx
	})

	out := make([]store.Prompt, len(results))
	for i, r := range results {
		out[i] = ix.prompts[r.idx]
	}
	return out
}

// termMatches intersects posting lists for every tokenized query term.
func (ix *Index) termMatches(q string) []int {
	terms := Tokenize(q)
	if len(terms) == 0 {
		return nil
	}

	// Start from the rarest term to keep the candidate set small.
	lists := make([][]int, 0, len(terms))
	for _, term := range terms {
		list, ok := ix.terms[term]
		if !ok {
			return nil
		}
		lists = append(lists, list)
	}
	sort.Slice(lists, func(a, b int) bool { return len(lists[a]) < len(lists[b]) })

	candidates := lists[0]
	for _, list := range lists[1:] {
		candidates = intersect(candidates, list)
		if len(candidates) == 0 {
			return nil
		}
	}
	return candidates
}

func (ix *Index) origNames() []string {
	names := make([]string, len(ix.prompts))
	for i, p := range ix.prompts {
		names[i] = p.Name
	}
	return names
}

// intersect merges two ascending posting lists.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Tokenize splits text into lowercase terms on any non-alphanumeric rune.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
