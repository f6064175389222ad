package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/replay"
)

var (
	flagShowEvents bool
	flagShowBoard  bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <script>...",
	Short: "Run replay scripts without a terminal",
	Long: `Runs scripted placements against a board with zero cascade delays and
prints the outcome of every step, the final score and a board hash.
Scripts that list expectations fail the command when they do not hold.

Script format (YAML):
  name: spell chain
  level: lvl02          # or an inline board:
  board:
    layout: ["R R G", " B . ."]
  steps:
    - {row: 1, col: 1, type: spell}
    - {row: 3, col: 2, type: nero, targets: [{row: 0, col: 0}]}
  expect:
    outcomes: [success, success]
    remaining: 3

Examples:
  hexbubble simulate testdata/drop.yaml
  hexbubble simulate --events --board scripts/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&flagShowEvents, "events", false, "Print the event log")
	simulateCmd.Flags().BoolVar(&flagShowBoard, "board", false, "Print the final board")
}

func runSimulate(_ *cobra.Command, args []string) error {
	cfg, err := applyGameSettings()
	if err != nil {
		return err
	}
	opts := replay.Options{
		Levels:  levelLoader(),
		Scoring: cfg.Scoring,
		Logger:  logger,
	}

	failed := 0
	for _, path := range args {
		script, err := replay.Load(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", path, err)
			continue
		}

		res, err := replay.Run(script, opts)
		if err != nil {
			failed++
			fmt.Printf("FAIL %s: %v\n", path, err)
			continue
		}

		status := "ok  "
		verr := replay.Verify(res, script.Expect)
		if verr != nil {
			failed++
			status = "FAIL"
		}
		fmt.Printf("%s %s (%s): %d steps, score %d, best combo %d, %d left, hash %016x\n",
			status, path, res.Name, len(res.Steps), res.Score, res.BestCombo, res.Remaining, res.Hash)

		for _, st := range res.Steps {
			fmt.Printf("     %2d. %-5s at %v: %s", st.Step, st.Type, st.Cell, st.Report.Outcome)
			if st.Report.Destroyed+st.Report.Dropped > 0 {
				fmt.Printf(" (%d destroyed in %d waves, %d dropped)", st.Report.Destroyed, st.Report.Waves, st.Report.Dropped)
			}
			fmt.Println()
		}
		if flagShowEvents {
			for _, e := range res.Events {
				fmt.Printf("     %s\n", e)
			}
		}
		if flagShowBoard {
			fmt.Println(res.Board)
		}
		if verr != nil {
			fmt.Printf("     %v\n", verr)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed", failed, len(args))
	}
	return nil
}
