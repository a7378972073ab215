package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/design/formats"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <design>",
	Short: "Print a design as YAML or JSON",
	Long: `Write a design from the catalog as a YAML or canonical JSON bundle.

Examples:
  gamify export corridor
  gamify export castle --format json -o castle.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "yaml", "Output format: yaml or json")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(_ *cobra.Command, args []string) error {
	store := openStoreOrWarn()
	if store != nil {
		defer store.Close()
	}

	d, err := resolveDesign(newCatalog(store), args[0])
	if err != nil {
		return err
	}

	var data []byte
	switch flagExportFormat {
	case "yaml", "yml":
		data, err = formats.EncodeYAML(d.Bundle())
	case "json":
		data, err = formats.EncodeJSON(d.Bundle())
	default:
		return fmt.Errorf("unknown format %q (use yaml or json)", flagExportFormat)
	}
	if err != nil {
		return err
	}

	if flagExportOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(flagExportOutput, data, 0o644); err != nil {
		return err
	}
	logger.Info("exported", "id", d.ID, "path", flagExportOutput)
	return nil
}
