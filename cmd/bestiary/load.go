package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/vtt-bestiary/internal/compendium"
	"github.com/KirkDiggler/vtt-bestiary/internal/services"
)

var loadCmd = &cobra.Command{
	Use:   "load [files...]",
	Short: "Load compendium files and report conversion results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLoad,
}

// readPayloads parses the given compendium files concurrently and merges
// their monster maps into one payload. Later files win on name collisions.
func readPayloads(ctx context.Context, paths []string) (*compendium.Payload, error) {
	payloads := make([]*compendium.Payload, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			var payload compendium.Payload
			if err := json.Unmarshal(data, &payload); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			payloads[i] = &payload
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &compendium.Payload{Monsters: make(map[string]json.RawMessage)}
	for _, payload := range payloads {
		for name, record := range payload.Monsters {
			merged.Monsters[name] = record
		}
	}
	return merged, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	payload, err := readPayloads(ctx, args)
	if err != nil {
		return err
	}

	provider := services.NewProvider(nil)
	loaded, err := provider.BestiaryService.LoadCompendium(ctx, payload)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d templates from %d files\n", loaded, len(args))
	return nil
}
