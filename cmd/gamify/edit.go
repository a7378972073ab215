package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/editor"
	"github.com/vovakirdan/gamify/internal/storage"
)

var (
	flagSpawnRandom bool
	flagSpawnClear  bool
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a design",
	Long: `Edit a design from the catalog. The result is saved into the library,
so editing a built-in design or a design file creates a library copy that
shadows it.

Examples:
  gamify edit color corridor C "#ff8800"
  gamify edit paint corridor 4 2 C
  gamify edit alias corridor o C
  gamify edit spawn corridor 2 3
  gamify edit spawn corridor --random
  gamify edit rules corridor > rules.json
  gamify edit rules corridor rules.json`,
}

var editColorCmd = &cobra.Command{
	Use:   "color <design> <code> <color>",
	Short: "Set the color of a palette code",
	Args:  cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		color, err := core.ParseColor(args[2])
		if err != nil {
			return err
		}
		return editDesign(args[0], func(e *editor.Editor, d *design.Design) (*design.Design, error) {
			return e.SetColor(d, core.ColorCode(args[1]), color)
		})
	},
}

var editPaintCmd = &cobra.Command{
	Use:   "paint <design> <x> <y> <code>",
	Short: "Set the code of one grid cell",
	Args:  cobra.ExactArgs(4),
	RunE: func(_ *cobra.Command, args []string) error {
		p, err := parsePoint(args[1], args[2])
		if err != nil {
			return err
		}
		return editDesign(args[0], func(e *editor.Editor, d *design.Design) (*design.Design, error) {
			return e.Paint(d, p, core.ColorCode(args[3]))
		})
	},
}

var editAliasCmd = &cobra.Command{
	Use:   "alias <design> <name> [member]...",
	Short: "Create an alias or append members to it",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		name := core.AliasName(args[1])
		members := args[2:]
		return editDesign(args[0], func(e *editor.Editor, d *design.Design) (*design.Design, error) {
			if !d.Aliases.IsAlias(string(name)) {
				next, _ := e.NewAlias(d, name, members...)
				return next, nil
			}
			for _, m := range members {
				d = e.AddAliasMember(d, name, m, -1)
			}
			return d, nil
		})
	},
}

var editSpawnCmd = &cobra.Command{
	Use:   "spawn <design> [x y]",
	Short: "Move or remove the player spawn",
	Args:  cobra.RangeArgs(1, 3),
	RunE: func(_ *cobra.Command, args []string) error {
		return editDesign(args[0], func(e *editor.Editor, d *design.Design) (*design.Design, error) {
			switch {
			case flagSpawnClear:
				return e.SetSpawn(d, nil), nil
			case flagSpawnRandom:
				seed := cfg.Seed
				if seed == 0 {
					seed = time.Now().UnixNano()
				}
				return e.RandomSpawn(d, rand.New(rand.NewSource(seed))), nil
			case len(args) == 3:
				p, err := parsePoint(args[1], args[2])
				if err != nil {
					return d, err
				}
				return e.SetSpawn(d, &p), nil
			}
			return d, fmt.Errorf("give x and y, --random or --clear")
		})
	},
}

var editRulesCmd = &cobra.Command{
	Use:   "rules <design> [file]",
	Short: "Print the rules as JSON, or replace them from a JSON file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			store := openStoreOrWarn()
			if store != nil {
				defer store.Close()
			}
			d, err := resolveDesign(newCatalog(store), args[0])
			if err != nil {
				return err
			}
			data, err := editor.RulesJSON(d)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		return editDesign(args[0], func(e *editor.Editor, d *design.Design) (*design.Design, error) {
			return e.SetRulesJSON(d, data)
		})
	},
}

func init() {
	editSpawnCmd.Flags().BoolVar(&flagSpawnRandom, "random", false, "Spawn on a random empty cell")
	editSpawnCmd.Flags().BoolVar(&flagSpawnClear, "clear", false, "Remove the spawn")
	editSpawnCmd.MarkFlagsMutuallyExclusive("random", "clear")

	editCmd.AddCommand(editColorCmd)
	editCmd.AddCommand(editPaintCmd)
	editCmd.AddCommand(editAliasCmd)
	editCmd.AddCommand(editSpawnCmd)
	editCmd.AddCommand(editRulesCmd)
}

// editDesign loads id, applies fn and saves the result into the library
// when it changed.
func editDesign(id string, fn func(*editor.Editor, *design.Design) (*design.Design, error)) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	d, err := resolveDesign(newCatalog(store), id)
	if err != nil {
		return err
	}

	next, err := fn(editor.New(logger), d)
	if err != nil {
		return err
	}
	if !editor.Changed(d, next) {
		fmt.Println("No change.")
		return nil
	}
	return saveEdited(store, next)
}

// saveEdited stores d, warning about problems it still has.
func saveEdited(store *storage.Store, d *design.Design) error {
	for _, p := range design.Problems(d) {
		logger.Warn("design has a problem", "id", d.ID, "problem", p)
	}
	if err := store.SaveDesign(d); err != nil {
		return err
	}
	fmt.Printf("Saved %s.\n", d.ID)
	return nil
}

func parsePoint(xs, ys string) (core.Point, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return core.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return core.Point{}, fmt.Errorf("y: %w", err)
	}
	return core.P(x, y), nil
}
