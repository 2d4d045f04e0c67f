package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	"github.com/KirkDiggler/vtt-bestiary/internal/search"
)

func indexTemplates() []*entities.Template {
	return []*entities.Template{
		{
			ID:              "monster_goblin",
			Name:            "Goblin",
			Type:            "humanoid",
			Subtype:         "goblinoid",
			Size:            entities.SizeSmall,
			ChallengeRating: "1/4",
			Source:          "compendium",
			Tags:            []string{"humanoid", "small", "CR 1/4"},
		},
		{
			ID:              "monster_goblin_boss",
			Name:            "Goblin Boss",
			Type:            "humanoid",
			Subtype:         "goblinoid",
			Size:            entities.SizeSmall,
			ChallengeRating: "1",
			Source:          "compendium",
			Tags:            []string{"humanoid", "small", "CR 1"},
		},
		{
			ID:              "monster_owlbear",
			Name:            "Owlbear",
			Type:            "monstrosity",
			Size:            entities.SizeLarge,
			ChallengeRating: "3",
			Source:          "compendium",
			Tags:            []string{"monstrosity", "large", "CR 3"},
		},
		{
			ID:              "monster_archmage",
			Name:            "Archmage",
			Type:            "humanoid",
			Size:            entities.SizeMedium,
			ChallengeRating: "12",
			Source:          "homebrew",
			Tags:            []string{"humanoid", "medium", "CR 12", "spellcaster"},
			Spellcasting:    &entities.Spellcasting{Level: 18, Ability: "intelligence"},
		},
		{
			ID:              "monster_adult_red_dragon",
			Name:            "Adult Red Dragon",
			Type:            "dragon",
			Size:            entities.SizeHuge,
			ChallengeRating: "17",
			Source:          "compendium",
			Tags:            []string{"dragon", "huge", "CR 17", "legendary"},
			Legendary:       &entities.LegendaryBlock{ActionsPerRound: 3},
		},
	}
}

func newIndex() *search.Index {
	idx := search.NewIndex()
	idx.Rebuild(indexTemplates())
	return idx
}

func resultNames(results []*entities.Template) []string {
	names := make([]string, 0, len(results))
	for _, t := range results {
		names = append(names, t.Name)
	}
	return names
}

func TestIndex_Search_Substring(t *testing.T) {
	idx := newIndex()

	t.Run("full term", func(t *testing.T) {
		results := idx.Search("goblin", nil)
		assert.Equal(t, []string{"Goblin", "Goblin Boss"}, resultNames(results))
	})

	t.Run("partial term", func(t *testing.T) {
		results := idx.Search("gob", nil)
		assert.Equal(t, []string{"Goblin", "Goblin Boss"}, resultNames(results))
	})

	t.Run("case insensitive", func(t *testing.T) {
		results := idx.Search("GOBLIN", nil)
		assert.Len(t, results, 2)
	})

	t.Run("matches subtype", func(t *testing.T) {
		results := idx.Search("goblinoid", nil)
		assert.Len(t, results, 2)
	})

	t.Run("empty query matches everything", func(t *testing.T) {
		results := idx.Search("", nil)
		assert.Len(t, results, 5)
	})

	t.Run("no match", func(t *testing.T) {
		results := idx.Search("beholder", nil)
		assert.Empty(t, results)
	})
}

func TestIndex_Search_ConjunctiveTerms(t *testing.T) {
	idx := newIndex()

	t.Run("every term must match", func(t *testing.T) {
		results := idx.Search("goblin boss", nil)
		assert.Equal(t, []string{"Goblin Boss"}, resultNames(results))
	})

	t.Run("terms may hit different fields", func(t *testing.T) {
		results := idx.Search("goblin small", nil)
		assert.Len(t, results, 2)
	})

	t.Run("one missing term fails the match", func(t *testing.T) {
		results := idx.Search("goblin elite", nil)
		assert.Empty(t, results)
	})
}

func TestIndex_Search_CRToken(t *testing.T) {
	idx := newIndex()

	// fraction separator is stripped from the token
	results := idx.Search("cr14", nil)
	assert.Equal(t, []string{"Goblin"}, resultNames(results))

	results = idx.Search("cr17", nil)
	assert.Equal(t, []string{"Adult Red Dragon"}, resultNames(results))
}

func TestIndex_Search_Filters(t *testing.T) {
	idx := newIndex()

	t.Run("type", func(t *testing.T) {
		results := idx.Search("", &search.Filters{Type: "Humanoid"})
		assert.Equal(t, []string{"Archmage", "Goblin", "Goblin Boss"}, resultNames(results))
	})

	t.Run("sizes", func(t *testing.T) {
		results := idx.Search("", &search.Filters{
			Sizes: []entities.Size{entities.SizeLarge, entities.SizeHuge},
		})
		assert.Equal(t, []string{"Adult Red Dragon", "Owlbear"}, resultNames(results))
	})

	t.Run("challenge rating range is numeric", func(t *testing.T) {
		results := idx.Search("", &search.Filters{
			ChallengeRating: &search.CRRange{Min: 1, Max: 5},
		})
		// "1/4" is 0.25 and falls below the range
		assert.Equal(t, []string{"Goblin Boss", "Owlbear"}, resultNames(results))
	})

	t.Run("source", func(t *testing.T) {
		results := idx.Search("", &search.Filters{Source: "homebrew"})
		assert.Equal(t, []string{"Archmage"}, resultNames(results))
	})

	t.Run("tag substring", func(t *testing.T) {
		results := idx.Search("", &search.Filters{Tags: []string{"spellcast"}})
		assert.Equal(t, []string{"Archmage"}, resultNames(results))
	})

	t.Run("has spellcasting", func(t *testing.T) {
		yes := true
		results := idx.Search("", &search.Filters{HasSpellcasting: &yes})
		assert.Equal(t, []string{"Archmage"}, resultNames(results))

		no := false
		results = idx.Search("", &search.Filters{HasSpellcasting: &no})
		assert.Len(t, results, 4)
	})

	t.Run("has legendary", func(t *testing.T) {
		yes := true
		results := idx.Search("", &search.Filters{HasLegendary: &yes})
		assert.Equal(t, []string{"Adult Red Dragon"}, resultNames(results))
	})

	t.Run("filters compose with text query", func(t *testing.T) {
		results := idx.Search("goblin", &search.Filters{
			ChallengeRating: &search.CRRange{Min: 1, Max: 5},
		})
		assert.Equal(t, []string{"Goblin Boss"}, resultNames(results))
	})
}

func TestIndex_Search_Ordering(t *testing.T) {
	idx := newIndex()

	results := idx.Search("", nil)
	assert.Equal(t, []string{
		"Adult Red Dragon",
		"Archmage",
		"Goblin",
		"Goblin Boss",
		"Owlbear",
	}, resultNames(results))
}

func TestIndex_Search_Cache(t *testing.T) {
	idx := newIndex()

	t.Run("repeated unfiltered query returns identical slice", func(t *testing.T) {
		first := idx.Search("goblin", nil)
		second := idx.Search("goblin", nil)
		require.Len(t, first, 2)
		assert.Same(t, first[0], second[0])
		assert.Equal(t, first, second)
	})

	t.Run("rebuild invalidates", func(t *testing.T) {
		before := idx.Search("goblin", nil)
		require.Len(t, before, 2)

		idx.Rebuild(indexTemplates()[:1])
		after := idx.Search("goblin", nil)
		assert.Len(t, after, 1)
	})

	t.Run("filtered queries bypass the cache", func(t *testing.T) {
		idx := newIndex()

		unfiltered := idx.Search("goblin", nil)
		require.Len(t, unfiltered, 2)

		filtered := idx.Search("goblin", &search.Filters{
			ChallengeRating: &search.CRRange{Min: 1, Max: 5},
		})
		require.Len(t, filtered, 1)

		// the cached unfiltered result survives the filtered query
		again := idx.Search("goblin", nil)
		assert.Len(t, again, 2)
	})
}

func TestFilters_Empty(t *testing.T) {
	assert.True(t, (*search.Filters)(nil).Empty())
	assert.True(t, (&search.Filters{}).Empty())
	assert.False(t, (&search.Filters{Type: "dragon"}).Empty())
	yes := true
	assert.False(t, (&search.Filters{HasLegendary: &yes}).Empty())
}
