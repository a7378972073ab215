// gamify is a pixel-grid push puzzle: designs are played in the terminal,
// over SSH or through a JSON API, and kept in a local library.
//
// Usage:
//
//	gamify list                  - List available designs
//	gamify play [design]         - Play a design, or pick one from the library
//	gamify check <file|design>   - Validate designs
//	gamify import <file>...      - Save design files into the library
//	gamify new <image>           - Onboard a PNG or GIF as a new design
//	gamify export <design>       - Print a design as YAML or JSON
//	gamify edit ...              - Change colors, spawn or rules of a design
//	gamify delete <design>       - Remove a design from the library
//	gamify history [design]      - Show recorded plays
//	gamify serve                 - Start SSH server for remote play
//	gamify api                   - Start the JSON HTTP API
//
// Global flags:
//
//	--config <path>     - Config file (default: search ~/.gamify, ./configs)
//	--log-level <lvl>   - debug, info, warn or error
//	--seed <value>      - Set RNG seed for alias resolution
//	--db <path>         - Set library database path
//	--designs <dir>     - Directory of design files
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/config"
	"github.com/vovakirdan/gamify/internal/game"
	"github.com/vovakirdan/gamify/internal/storage"
)

var (
	// Global flags
	flagConfig     string
	flagLogLevel   string
	flagSeed       int64
	flagDBPath     string
	flagDesignsDir string

	// Set up by the root command before any subcommand runs
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamify",
	Short: "Gamify - push puzzles on pixel grids",
	Long: `Gamify turns pixel art into push puzzles. Each design has a palette,
aliases grouping colors, and rewrite rules that fire when the player moves.

Available commands:
  list     - Show all available designs
  play     - Play a design in the terminal
  check    - Validate design files or library designs
  import   - Save design files into the library
  new      - Onboard an image as a new design
  export   - Print a design as YAML or JSON
  edit     - Edit a saved design
  delete   - Remove a design from the library
  history  - View recorded plays
  serve    - Start SSH server for remote play
  api      - Start the JSON HTTP API

Examples:
  gamify list
  gamify play corridor
  gamify import ./levels/*.json
  gamify serve --ssh :2222`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to library database")
	rootCmd.PersistentFlags().StringVar(&flagDesignsDir, "designs", "", "Directory of design files")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// setup loads the config, applies flag overrides and builds the root logger.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = loaded

	// Flags override file and environment
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("db") {
		cfg.Storage.Path = flagDBPath
	}
	if flags.Changed("designs") {
		cfg.Designs.Dir = flagDesignsDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gamify",
		Level:           cfg.Level(),
	})
	return nil
}

// openStore opens the design library.
func openStore() (*storage.Store, error) {
	return storage.Open(cfg.Storage.Path)
}

// openStoreOrWarn opens the library; play and serve still work without it.
func openStoreOrWarn() *storage.Store {
	store, err := openStore()
	if err != nil {
		logger.Warn("could not open library database", "error", err)
		return nil
	}
	return store
}

// newCatalog returns the design catalog over the configured sources.
func newCatalog(store *storage.Store) *game.Catalog {
	return &game.Catalog{Dir: config.ExpandHome(cfg.Designs.Dir), Store: store}
}

// catalog builds the design catalog and makes every design playable.
func catalog(store *storage.Store) (*game.Catalog, error) {
	c := newCatalog(store)
	designs, err := c.Designs()
	if err != nil {
		return nil, err
	}
	for _, d := range designs {
		game.Register(d)
	}
	logger.Debug("designs registered", "count", len(designs))
	return c, nil
}
