package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles"
	"github.com/vovakirdan/hexbubble/internal/platform/tui"
	"github.com/vovakirdan/hexbubble/internal/registry"
	"github.com/vovakirdan/hexbubble/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the mode and level picker",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select.
After a game ends, you return to the menu to play again.

Examples:
  hexbubble menu
  hexbubble menu --fps 30
  hexbubble menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	if _, err := applyGameSettings(); err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "err", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	loader := levelLoader()
	for {
		res, err := tui.RunMenu(loader, cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}

		case res.GameID != "":
			if res.StartLevel > 0 {
				bubbles.SetStartLevel(res.StartLevel)
			}
			game, err := registry.Create(res.GameID)
			if err != nil {
				return err
			}
			if err := tui.Run(game, store, cfg, logger); err != nil {
				return err
			}

		default:
			return nil
		}
	}
}
