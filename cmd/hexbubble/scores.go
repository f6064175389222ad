package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexbubble/internal/registry"
	"github.com/vovakirdan/hexbubble/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [campaign|endless]",
	Short: "Show high scores and recent sessions",
	Long: `Display the top 10 scores and the latest sessions for a mode.
Without an argument both modes are shown.

Examples:
  hexbubble scores
  hexbubble scores endless`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func runScores(_ *cobra.Command, args []string) error {
	ids := []string{"bubbles", "bubbles_endless"}
	if len(args) == 1 {
		id, err := modeGameID(args)
		if err != nil {
			return err
		}
		ids = []string{id}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	for i, id := range ids {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, id); err != nil {
			return err
		}
	}
	return nil
}

func printScores(store *storage.Store, gameID string) error {
	title := gameID
	if g, err := registry.Create(gameID); err == nil {
		title = g.Title()
	}

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n\n", title)
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Printf("\nBest: %d  Games: %d  Best combo: %d  Accuracy: %.0f%%\n",
		stats.HighScore, stats.GamesCount, stats.BestCombo, stats.Accuracy()*100)

	sessions, err := store.RecentSessions(gameID, 5)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}
	fmt.Println("\nRecent sessions:")
	for _, s := range sessions {
		fmt.Printf("  %s  level %-2d  score %-6d  combo %-2d  matches %-3d  misses %-3d  dropped %d\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Level, s.Score, s.BestCombo, s.Matches, s.Misses, s.Dropped)
	}
	return nil
}
