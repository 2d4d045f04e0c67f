package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/vtt-bestiary/internal/entities"
	"github.com/KirkDiggler/vtt-bestiary/internal/search"
	"github.com/KirkDiggler/vtt-bestiary/internal/services"
)

var (
	searchCompendium string
	searchType       string
	searchSizes      []string
	searchSource     string
	searchTags       []string
	searchCRMin      float64
	searchCRMax      float64
)

var searchCmd = &cobra.Command{
	Use:   "search [terms...]",
	Short: "Search a loaded compendium",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchCompendium, "compendium", "", "compendium JSON file (defaults to COMPENDIUM_PATH)")
	searchCmd.Flags().StringVar(&searchType, "type", "", "exact creature type")
	searchCmd.Flags().StringSliceVar(&searchSizes, "size", nil, "allowed sizes")
	searchCmd.Flags().StringVar(&searchSource, "source", "", "exact source")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "required tags")
	searchCmd.Flags().Float64Var(&searchCRMin, "cr-min", -1, "minimum challenge rating")
	searchCmd.Flags().Float64Var(&searchCRMax, "cr-max", -1, "maximum challenge rating")
}

func searchFilters() *search.Filters {
	filters := &search.Filters{
		Type:   searchType,
		Source: searchSource,
		Tags:   searchTags,
	}
	for _, size := range searchSizes {
		filters.Sizes = append(filters.Sizes, entities.Size(size))
	}
	if searchCRMin >= 0 || searchCRMax >= 0 {
		crRange := &search.CRRange{Min: 0, Max: 30}
		if searchCRMin >= 0 {
			crRange.Min = searchCRMin
		}
		if searchCRMax >= 0 {
			crRange.Max = searchCRMax
		}
		filters.ChallengeRating = crRange
	}
	return filters
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := searchCompendium
	if path == "" {
		path = cfg.Compendium.Path
	}
	if path == "" {
		return fmt.Errorf("no compendium file given (use --compendium or COMPENDIUM_PATH)")
	}

	payload, err := readPayloads(ctx, []string{path})
	if err != nil {
		return err
	}

	provider := services.NewProvider(nil)
	if _, err := provider.BestiaryService.LoadCompendium(ctx, payload); err != nil {
		return err
	}

	results, err := provider.BestiaryService.SearchMonsters(ctx, strings.Join(args, " "), searchFilters())
	if err != nil {
		return err
	}

	for _, t := range results {
		fmt.Printf("%-30s CR %-4s %-12s AC %-3d HP %d (%s)\n",
			t.Name, t.ChallengeRating, t.Type, t.ArmorClass, t.HitPoints.Average, t.HitPoints.Formula)
	}
	fmt.Printf("%d results\n", len(results))
	return nil
}
