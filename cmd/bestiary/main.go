// Package main is the entry point for the bestiary CLI
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/vtt-bestiary/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bestiary",
	Short: "VTT bestiary core",
	Long:  `Loads creature compendiums, searches the template registry, and exports snapshots for a persistence layer.`,
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env file")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(exportCmd)
}
