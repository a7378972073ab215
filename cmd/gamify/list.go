package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available designs",
	Long: `Shows the built-in designs, the designs in the designs directory and
the designs saved in the library. A library design shadows a file or
built-in design with the same ID.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	c, err := catalog(store)
	if err != nil {
		return err
	}
	designs, err := c.Designs()
	if err != nil {
		return err
	}

	if len(designs) == 0 {
		fmt.Println("No designs available.")
		return nil
	}

	fmt.Println("Available designs:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, d := range designs {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "ID", "Size", "Rules", "Title")
	fmt.Printf("  %-*s  %-7s  %-5s  %s\n", maxIDLen, "--", "----", "-----", "-----")

	for _, d := range designs {
		size := fmt.Sprintf("%dx%d", d.Grid.Width(), d.Grid.Height())
		fmt.Printf("  %-*s  %-7s  %-5d  %s\n", maxIDLen, d.ID, size, len(d.Rules), d.Title())
	}

	fmt.Println()
	fmt.Println("Run 'gamify play <id>' to play a design.")
	return nil
}
