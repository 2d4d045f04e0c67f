// Package search answers conjunctive substring queries with structured
// filters over the template population. The index is rebuilt from scratch on
// every template mutation; no incremental diffing.
package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	"github.com/KirkDiggler/vtt-bestiary/internal/rules"
)

// CRRange is an inclusive numeric challenge rating range
type CRRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Filters narrow a text query. Every set filter is ANDed with the text
// result.
type Filters struct {
	Type            string          `json:"type,omitempty"`
	Sizes           []entities.Size `json:"sizes,omitempty"`
	ChallengeRating *CRRange        `json:"challenge_rating,omitempty"`
	Source          string          `json:"source,omitempty"`
	Tags            []string        `json:"tags,omitempty"`
	HasSpellcasting *bool           `json:"has_spellcasting,omitempty"`
	HasLegendary    *bool           `json:"has_legendary,omitempty"`
}

// Empty reports whether no filter is set
func (f *Filters) Empty() bool {
	if f == nil {
		return true
	}
	return f.Type == "" && len(f.Sizes) == 0 && f.ChallengeRating == nil &&
		f.Source == "" && len(f.Tags) == 0 && f.HasSpellcasting == nil && f.HasLegendary == nil
}

type indexEntry struct {
	template *entities.Template
	terms    []string
}

// Index is the inverted term index over templates
type Index struct {
	entries  []indexEntry
	collator *collate.Collator

	// Single-entry result cache for unfiltered text queries. Filtered
	// queries never consult or populate it.
	cachedQuery   string
	cachedResults []*entities.Template
	cacheValid    bool
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		collator: collate.New(language.English, collate.Loose),
	}
}

// Rebuild replaces the whole index with terms derived from the given
// templates and drops the query cache.
func (i *Index) Rebuild(templates []*entities.Template) {
	entries := make([]indexEntry, 0, len(templates))
	for _, t := range templates {
		entries = append(entries, indexEntry{
			template: t,
			terms:    indexTerms(t),
		})
	}

	i.entries = entries
	i.cacheValid = false
	i.cachedQuery = ""
	i.cachedResults = nil
}

// Search returns templates matching every whitespace-split query term as a
// substring of at least one indexed term, post-filtered by the structured
// filters, ordered locale-aware ascending by name.
func (i *Index) Search(query string, filters *Filters) []*entities.Template {
	unfiltered := filters.Empty()

	if unfiltered && i.cacheValid && query == i.cachedQuery {
		return i.cachedResults
	}

	terms := strings.Fields(strings.ToLower(query))

	var results []*entities.Template
	for _, entry := range i.entries {
		if !matchesTerms(entry.terms, terms) {
			continue
		}
		if !unfiltered && !matchesFilters(entry.template, filters) {
			continue
		}
		results = append(results, entry.template)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return i.collator.CompareString(results[a].Name, results[b].Name) < 0
	})

	if unfiltered {
		i.cachedQuery = query
		i.cachedResults = results
		i.cacheValid = true
	}

	return results
}

// indexTerms builds the lower-cased term set for one template: name tokens,
// type, subtype, size, alignment, tags, and a CR token with the fraction
// separator removed ("1/4" -> "cr14").
func indexTerms(t *entities.Template) []string {
	var terms []string

	terms = append(terms, strings.Fields(strings.ToLower(t.Name))...)
	if t.Type != "" {
		terms = append(terms, strings.ToLower(t.Type))
	}
	if t.Subtype != "" {
		terms = append(terms, strings.ToLower(t.Subtype))
	}
	if t.Size != "" {
		terms = append(terms, strings.ToLower(string(t.Size)))
	}
	if t.Alignment != "" {
		terms = append(terms, strings.ToLower(t.Alignment))
	}
	for _, tag := range t.Tags {
		terms = append(terms, strings.ToLower(tag))
	}
	if t.ChallengeRating != "" {
		terms = append(terms, "cr"+strings.ReplaceAll(t.ChallengeRating, "/", ""))
	}

	return terms
}

// matchesTerms checks that every query term is a substring of at least one
// indexed term. Different query terms may match different indexed terms.
func matchesTerms(indexed, query []string) bool {
	for _, term := range query {
		found := false
		for _, candidate := range indexed {
			if strings.Contains(candidate, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesFilters(t *entities.Template, f *Filters) bool {
	if f.Type != "" && !strings.EqualFold(f.Type, t.Type) {
		return false
	}

	if len(f.Sizes) > 0 {
		found := false
		for _, size := range f.Sizes {
			if strings.EqualFold(string(size), string(t.Size)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.ChallengeRating != nil {
		value, ok := rules.ParseChallengeRating(t.ChallengeRating)
		if !ok {
			return false
		}
		if value < f.ChallengeRating.Min || value > f.ChallengeRating.Max {
			return false
		}
	}

	if f.Source != "" && !strings.EqualFold(f.Source, t.Source) {
		return false
	}

	for _, wanted := range f.Tags {
		found := false
		lowered := strings.ToLower(wanted)
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), lowered) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.HasSpellcasting != nil && (t.Spellcasting != nil) != *f.HasSpellcasting {
		return false
	}
	if f.HasLegendary != nil && (t.Legendary != nil) != *f.HasLegendary {
		return false
	}

	return true
}
