package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/design"
)

var (
	flagImportID    string
	flagImportForce bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Save design files into the library",
	Long: `Load design files and save them into the library. YAML and canonical
JSON bundles are read as-is; older JSON exports are converted, and when they
carry no aliases the aliases are derived from the dominant color.

Designs that fail validation are skipped unless --force is given.

Examples:
  gamify import ./levels/level1.json
  gamify import ./castle.yaml --id castle
  gamify import ./old/*.json --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&flagImportID, "id", "", "Design ID (single file only; default: from the file)")
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Import designs that fail validation")
}

func runImport(_ *cobra.Command, args []string) error {
	if flagImportID != "" && len(args) > 1 {
		return fmt.Errorf("--id needs exactly one file, got %d", len(args))
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	imported := 0
	for _, path := range args {
		d, err := design.LoadPath(path)
		if err != nil {
			logger.Error("could not load design", "path", path, "error", err)
			continue
		}
		if flagImportID != "" {
			d.ID = flagImportID
		}

		if err := design.Validate(d); err != nil {
			if !flagImportForce {
				logger.Error("invalid design, skipped", "path", path, "error", err)
				continue
			}
			logger.Warn("importing invalid design", "path", path, "error", err)
		}

		if err := store.SaveDesign(d); err != nil {
			return err
		}
		logger.Info("imported", "id", d.ID, "path", path)
		imported++
	}

	fmt.Printf("Imported %d of %d design(s).\n", imported, len(args))
	if imported < len(args) {
		return fmt.Errorf("%d design(s) not imported", len(args)-imported)
	}
	return nil
}
