package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/game"
	"github.com/vovakirdan/gamify/internal/platform/tui"
	"github.com/vovakirdan/gamify/internal/registry"
)

var flagPlayFile string

var playCmd = &cobra.Command{
	Use:   "play [design]",
	Short: "Play a design",
	Long: `Start playing the specified design. Without a design, the library
opens so you can pick one; going back returns to the library.

Controls:
  Arrows/WASD/hjkl  - Move
  R                 - Reset the design
  Esc/B             - Back to the library
  Ctrl+S            - Save a screenshot to ~/.gamify/screenshots
  Q/Ctrl+C          - Quit

Examples:
  gamify play
  gamify play corridor
  gamify play --file ./my-level.yaml
  gamify play torus --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVarP(&flagPlayFile, "file", "f", "", "Play a design file without importing it")
}

func runPlay(_ *cobra.Command, args []string) error {
	// Open the library; play still works without it
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	if _, err := catalog(store); err != nil {
		return err
	}

	designID := ""
	if len(args) == 1 {
		designID = args[0]
	}
	if flagPlayFile != "" {
		d, err := design.LoadPath(flagPlayFile)
		if err != nil {
			return err
		}
		if err := design.Validate(d); err != nil {
			return fmt.Errorf("%s: %w", flagPlayFile, err)
		}
		game.Register(d)
		designID = d.ID
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	rcfg := core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    cfg.Seed,
	}
	opts := tui.Options{
		ShowHelp:    cfg.Play.ShowHelp,
		RecordPlays: cfg.Play.RecordPlays,
		Logger:      logger,
	}

	if designID == "" {
		return tui.RunApp(store, rcfg, opts)
	}

	// Check if design exists
	if !registry.Exists(designID) {
		return fmt.Errorf("unknown design %q; run 'gamify list' to see available designs", designID)
	}
	g, err := registry.Create(designID)
	if err != nil {
		return err
	}

	logger.Debug("playing", "design", designID, "seed", rcfg.Seed)
	return tui.Run(g, store, rcfg, opts)
}
