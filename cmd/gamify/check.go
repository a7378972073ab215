package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/game"
)

var checkCmd = &cobra.Command{
	Use:   "check <file|design>...",
	Short: "Validate designs",
	Long: `Validate design files or designs from the catalog and report every
problem found: unknown cell codes, a missing blank alias, rules without a
player marker, unresolvable alias members or become symbols, and a spawn
outside the grid.

Arguments naming an existing file are loaded from disk; anything else is
looked up by design ID.

Examples:
  gamify check corridor
  gamify check ./levels/level1.json ./levels/level2.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func runCheck(_ *cobra.Command, args []string) error {
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}
	c := newCatalog(store)

	failed := 0
	for _, arg := range args {
		d, err := resolveDesign(c, arg)
		if err != nil {
			fmt.Printf("%s: %v\n", arg, err)
			failed++
			continue
		}

		problems := design.Problems(d)
		if len(problems) == 0 {
			fmt.Printf("%s: ok\n", arg)
			continue
		}
		failed++
		fmt.Printf("%s: %d problem(s)\n", arg, len(problems))
		for _, p := range problems {
			fmt.Printf("  %v\n", p)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d design(s) failed validation", failed, len(args))
	}
	return nil
}

// resolveDesign loads arg as a file when it exists, else by ID.
func resolveDesign(c *game.Catalog, arg string) (*design.Design, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return design.LoadPath(arg)
	}
	d, err := c.Design(arg)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("unknown design %q", arg)
	}
	return d, nil
}
