package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gamify/internal/platform/tui"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [design]",
	Short: "Show recorded plays",
	Long: `Display the most recent plays, newest first. With a design, only its
plays are shown, followed by its totals.

Examples:
  gamify history
  gamify history corridor --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 0, "Rows to show (default: play.max_history from config)")
}

func runHistory(_ *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	designID := ""
	if len(args) == 1 {
		designID = args[0]
	}
	limit := flagHistoryLimit
	if limit <= 0 {
		limit = cfg.Play.MaxHistory
	}

	records, err := store.History(designID, limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No plays recorded yet.")
		fmt.Println()
		if designID != "" {
			fmt.Printf("Play 'gamify play %s' to record the first one!\n", designID)
		}
		return nil
	}

	fmt.Println(tui.RenderHistory(records))

	if designID != "" {
		stats, err := store.Stats(designID)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Printf("Plays: %d  Total moves: %d  Most moves: %d\n",
			stats.Plays, stats.TotalMoves, stats.MostMoves)
		if !stats.LastPlayed.IsZero() {
			fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
		}
	}
	return nil
}
