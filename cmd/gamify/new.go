package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/design"
)

var (
	flagNewID   string
	flagNewName string
)

var newCmd = &cobra.Command{
	Use:   "new <image>",
	Short: "Onboard an image as a new design",
	Long: `Create a design from a PNG or GIF image and save it into the library.
Every pixel becomes one cell. The most common color and the colors similar
to it become walkable space, every other color becomes a solid wall. The
default push rules are installed and the player spawns on a random empty
cell.

The similarity threshold comes from the config (similarity, default 150).

Examples:
  gamify new ./sprite.png
  gamify new ./room.gif --id room --name "Throne Room" --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func init() {
	newCmd.Flags().StringVar(&flagNewID, "id", "", "Design ID (default: image file name)")
	newCmd.Flags().StringVar(&flagNewName, "name", "", "Display name")
}

func runNew(_ *cobra.Command, args []string) error {
	path := args[0]

	id := flagNewID
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	d, err := design.FromImage(id, f, cfg.Similarity, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if flagNewName != "" {
		d.Name = flagNewName
	}
	if d.Player == nil {
		logger.Warn("no empty cell for the spawn; set one with 'gamify edit spawn'", "id", id)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveDesign(d); err != nil {
		return err
	}
	fmt.Printf("Created %s (%dx%d, %d colors).\n", d.ID, d.Grid.Width(), d.Grid.Height(), d.Palette.Len())
	return nil
}
