package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/vtt-bestiary/internal/repositories/snapshots"
	"github.com/KirkDiggler/vtt-bestiary/internal/services"
)

var (
	exportCompendium string
	exportToRedis    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a loaded compendium as a snapshot",
	Long:  `Loads a compendium, exports the full snapshot, and writes it to stdout or to the Redis snapshot store.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportCompendium, "compendium", "", "compendium JSON file (defaults to COMPENDIUM_PATH)")
	exportCmd.Flags().BoolVar(&exportToRedis, "redis", false, "save the snapshot to Redis instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path := exportCompendium
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

	snapshot, err := provider.BestiaryService.ExportData(ctx)
	if err != nil {
		return err
	}

	if exportToRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := client.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to close redis client: %v\n", err)
			}
		}()

		store := snapshots.NewRedis(client)
		if err := store.Save(ctx, cfg.Compendium.SnapshotKey, snapshot); err != nil {
			return err
		}
		fmt.Printf("Saved snapshot %q (%d templates)\n", cfg.Compendium.SnapshotKey, len(snapshot.Templates))
		return nil
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot)
}
