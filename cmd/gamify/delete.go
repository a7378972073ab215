package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <design>",
	Short: "Remove a design from the library",
	Long: `Delete a saved design and its play records. Built-in designs and
design files are not affected.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ok, err := store.DeleteDesign(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("design %q is not in the library", args[0])
	}
	fmt.Printf("Deleted %s.\n", args[0])
	return nil
}
