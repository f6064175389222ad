package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [file...]",
	Short: "List campaign levels or validate level files",
	Long: `Without arguments, lists the campaign levels (built-in, or from
--levels-dir). With file arguments, validates each level file and reports
problems such as bubbles that are not connected to the top row.

Examples:
  hexbubble levels
  hexbubble levels --levels-dir ./my-levels
  hexbubble levels ./my-levels/cave.yaml`,
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return validateLevelFiles(args)
	}

	all, err := levelLoader().LoadAll()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No levels found.")
		return nil
	}

	fmt.Printf("  %-3s  %-10s  %-20s  %-7s  %-5s  %s\n", "#", "ID", "Name", "Size", "Shots", "Bubbles")
	fmt.Printf("  %-3s  %-10s  %-20s  %-7s  %-5s  %s\n", "-", "--", "----", "----", "-----", "-------")
	for i, l := range all {
		size := fmt.Sprintf("%dx%d", l.Rows, l.Cols)
		fmt.Printf("  %-3d  %-10s  %-20s  %-7s  %-5d  %d\n", i+1, l.ID, l.Name, size, l.Shots, len(l.Cells))
	}
	fmt.Println()
	fmt.Println("Run 'hexbubble play --level <#>' to start from a level.")
	return nil
}

func validateLevelFiles(paths []string) error {
	failed := 0
	for _, p := range paths {
		loader := levels.NewLoader(filepath.Dir(p))
		lvl, err := loader.LoadFile(filepath.Base(p))
		if err != nil {
			failed++
			var verr levels.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("FAIL %s: [%s] %s\n", p, verr.Code, verr.Message)
			} else {
				fmt.Printf("FAIL %s: %v\n", p, err)
			}
			continue
		}
		fmt.Printf("ok   %s: %q %dx%d, %d bubbles\n", p, lvl.Name, lvl.Rows, lvl.Cols, len(lvl.Cells))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d level files invalid", failed, len(paths))
	}
	return nil
}
