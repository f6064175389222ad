// hexbubble is a hex-grid bubble shooter for the terminal.
//
// Usage:
//
//	hexbubble list                 - List game modes
//	hexbubble play [mode]          - Play campaign (default) or endless
//	hexbubble menu                 - Start menu with mode and level picker
//	hexbubble levels [file...]     - List built-in levels or validate level files
//	hexbubble simulate <script>... - Run replay scripts headless
//	hexbubble scores [mode]        - Show high scores and session stats
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.hexbubble/scores.db)
//	--config <path>       - Custom bubbles.yaml
//	--difficulty <preset> - easy, normal, hard, fixed
//	--levels-dir <dir>    - Load campaign levels from a directory
//	--verbose             - Debug logging to stderr
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hexbubble/internal/config"
	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagVerbose    bool

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hexbubble",
	Short: "Hex Bubble - a bubble shooter on a hex grid",
	Long: `Hex Bubble is a terminal bubble shooter. Shots settle on a hex grid;
three or more connected bubbles of one color pop in waves, and anything
left hanging drops.

Special bubbles:
  Spell  - blasts itself and every neighbour, chaining through other spells
  Nero   - destroys the bubbles in its aim column, or a radius around it
  Fairy  - freeing one brings in fresh rows once its effect fades

Examples:
  hexbubble play
  hexbubble play endless --difficulty hard
  hexbubble menu
  hexbubble simulate scripts/*.yaml
  hexbubble scores`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = newLogger(flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hexbubble/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom bubbles.yaml")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelsDir, "levels-dir", "", "Directory of campaign level files")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoresCmd)
}

// newLogger writes to stderr. The TUI owns stdout while a game runs.
func newLogger(verbose bool) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "hexbubble",
	})
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// applyGameSettings loads the configuration and hands it to new games.
func applyGameSettings() (config.BubblesConfig, error) {
	cfg, err := config.LoadBubbles(flagConfig)
	if err != nil {
		return cfg, err
	}
	// Without a preset, games re-read the file on every restart.
	bubbles.SetConfigPath(flagConfig)
	if flagDifficulty != "" {
		preset, ok := config.ParsePreset(flagDifficulty)
		if !ok {
			return cfg, fmt.Errorf("unknown difficulty %q (use easy, normal, hard or fixed)", flagDifficulty)
		}
		config.ApplyBubblesPreset(&cfg, preset)
		bubbles.SetConfig(cfg)
	}

	bubbles.SetLevelsDir(flagLevelsDir)
	bubbles.SetLogger(logger)
	logger.Debug("configuration loaded", "config", flagConfig, "difficulty", flagDifficulty, "levels", flagLevelsDir)
	return cfg, nil
}

// levelLoader returns the campaign level source selected by the flags.
func levelLoader() *levels.Loader {
	if flagLevelsDir != "" {
		return levels.NewLoader(flagLevelsDir)
	}
	return levels.Builtin()
}

// runtimeConfig sizes the game to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
