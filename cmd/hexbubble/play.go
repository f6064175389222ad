package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles"
	"github.com/vovakirdan/hexbubble/internal/platform/tui"
	"github.com/vovakirdan/hexbubble/internal/registry"
	"github.com/vovakirdan/hexbubble/internal/storage"
)

var flagLevel int

var playCmd = &cobra.Command{
	Use:   "play [campaign|endless]",
	Short: "Play the game",
	Long: `Start a game in the terminal.

Controls:
  Left/Right, A/D - Aim
  Space/Up        - Fire
  Tab/Down        - Swap loaded and next bubble
  P/Esc           - Pause
  R               - Restart (after game over)
  Ctrl+S          - Save a screenshot
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Start at lowest difficulty, more shots
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty, fewer shots
  fixed  - No progression

Examples:
  hexbubble play
  hexbubble play --level 3
  hexbubble play endless --difficulty hard
  hexbubble play --levels-dir ./my-levels`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"campaign", "endless"},
	RunE:      runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to start from (1-based)")
}

// modeGameID maps a mode argument to a registered game.
func modeGameID(args []string) (string, error) {
	if len(args) == 0 {
		return "bubbles", nil
	}
	switch args[0] {
	case "campaign", "bubbles":
		return "bubbles", nil
	case "endless", "bubbles_endless":
		return "bubbles_endless", nil
	}
	if registry.Exists(args[0]) {
		return args[0], nil
	}
	return "", fmt.Errorf("unknown mode %q (use campaign or endless)", args[0])
}

func runPlay(cmd *cobra.Command, args []string) error {
	gameID, err := modeGameID(args)
	if err != nil {
		return err
	}
	if _, err := applyGameSettings(); err != nil {
		return err
	}
	if flagLevel > 0 {
		bubbles.SetStartLevel(flagLevel)
	}
	return playGame(gameID)
}

// playGame runs one game with score storage when the database opens.
func playGame(gameID string) error {
	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// Continue without storage - game still works
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), logger); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
