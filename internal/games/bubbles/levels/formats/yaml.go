// Package formats provides level file format parsers for the bubble board.
package formats

import (
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// YAMLLevel is the on-disk structure of a level file. A board is given
// either as ASCII layout rows or as an explicit cell list. Both may be
// used in one file as long as they do not overlap.
type YAMLLevel struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Size     YAMLSize          `yaml:"size"`
	Shots    int               `yaml:"shots,omitempty"`
	Layout   []string          `yaml:"layout,omitempty"`
	Cells    []YAMLCell        `yaml:"cells,omitempty"`
	Queue    []string          `yaml:"queue,omitempty"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize is the board size. Zero values are derived from the layout.
type YAMLSize struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// YAMLCell is one explicitly placed bubble.
type YAMLCell struct {
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
	Type  string `yaml:"type"`
	Fairy bool   `yaml:"fairy,omitempty"`
}

// Cell is a parsed bubble placement.
type Cell struct {
	Row   int
	Col   int
	Type  hexgrid.BubbleType
	Fairy bool
}

// Level is a parsed level ready for validation.
type Level struct {
	ID       string
	Name     string
	Rows     int
	Cols     int
	Shots    int
	Cells    []Cell
	Queue    []hexgrid.BubbleType
	Metadata map[string]string
}

// DefaultShots is used when a level does not limit shots explicitly.
const DefaultShots = 40

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return yl.Level()
}

// Level converts the on-disk structure into a parsed level. Boards embedded
// in other documents, such as replay scripts, use it directly.
func (yl YAMLLevel) Level() (Level, error) {
	shots := yl.Shots
	if shots <= 0 {
		shots = DefaultShots
	}

	level := Level{
		ID:       yl.ID,
		Name:     yl.Name,
		Rows:     yl.Size.Rows,
		Cols:     yl.Size.Cols,
		Shots:    shots,
		Metadata: yl.Metadata,
	}

	layoutCols := 0
	for row, line := range yl.Layout {
		cells, width, err := parseRow(row, line)
		if err != nil {
			return Level{}, err
		}
		layoutCols = max(layoutCols, width)
		level.Cells = append(level.Cells, cells...)
	}
	if level.Rows == 0 {
		level.Rows = len(yl.Layout)
	}
	if level.Cols == 0 {
		level.Cols = layoutCols
	}

	for i, c := range yl.Cells {
		t, ok := hexgrid.ParseBubbleType(c.Type)
		if !ok {
			return Level{}, fmt.Errorf("cell %d: unknown bubble type %q", i, c.Type)
		}
		level.Cells = append(level.Cells, Cell{Row: c.Row, Col: c.Col, Type: t, Fairy: c.Fairy})
	}

	for i, name := range yl.Queue {
		t, ok := hexgrid.ParseBubbleType(name)
		if !ok {
			return Level{}, fmt.Errorf("queue %d: unknown bubble type %q", i, name)
		}
		level.Queue = append(level.Queue, t)
	}

	return level, nil
}

// parseRow reads one ASCII layout row. Whitespace separates cells, '.'
// is empty and lowercase letters mark fairy bubbles.
func parseRow(row int, line string) ([]Cell, int, error) {
	var cells []Cell
	col := 0
	for _, ch := range line {
		if unicode.IsSpace(ch) {
			continue
		}
		if ch != '.' {
			t, ok := hexgrid.ParseBubbleType(string(ch))
			if !ok {
				return nil, 0, fmt.Errorf("layout row %d: unknown cell %q", row, ch)
			}
			cells = append(cells, Cell{Row: row, Col: col, Type: t, Fairy: unicode.IsLower(ch)})
		}
		col++
	}
	return cells, col, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// IsSupported reports whether a file name has a supported extension.
func IsSupported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range FormatExtensions() {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
