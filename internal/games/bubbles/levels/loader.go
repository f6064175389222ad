// Package levels loads bubble board layouts from YAML files or the
// built-in set. This package depends on hexgrid but hexgrid does not
// depend on levels.
package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Acquirer hands out bubble records for a board.
type Acquirer interface {
	Acquire(t hexgrid.BubbleType) *hexgrid.Bubble
}

// Level is a complete level definition.
type Level struct {
	ID       string
	Name     string
	Rows     int
	Cols     int
	Shots    int
	Cells    []formats.Cell
	Queue    []hexgrid.BubbleType
	Metadata map[string]string
	FilePath string
}

// Populate registers the level's bubbles on g without match checking.
// Cells outside g are skipped.
func (l *Level) Populate(g *hexgrid.Grid, pool Acquirer) int {
	n := 0
	for _, c := range l.Cells {
		if !g.IsValidCell(c.Row, c.Col) {
			continue
		}
		b := pool.Acquire(c.Type)
		b.Fairy = c.Fairy
		g.Register(c.Row, c.Col, b, false)
		n++
	}
	return n
}

// FromFormat wraps a parsed level. It does not validate.
func FromFormat(parsed formats.Level) Level {
	return Level{
		ID:       parsed.ID,
		Name:     parsed.Name,
		Rows:     parsed.Rows,
		Cols:     parsed.Cols,
		Shots:    parsed.Shots,
		Cells:    parsed.Cells,
		Queue:    parsed.Queue,
		Metadata: parsed.Metadata,
	}
}

// Loader reads levels from a file system rooted at Root.
type Loader struct {
	FS   fs.FS
	Root string
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(dir string) *Loader {
	return &Loader{FS: os.DirFS(dir), Root: "."}
}

// Builtin returns a loader over the levels compiled into the binary.
func Builtin() *Loader {
	return &Loader{FS: builtinFS, Root: "builtin"}
}

// LoadAll recursively scans and loads all valid level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var out []Level

	err := fs.WalkDir(l.FS, l.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !formats.IsSupported(p) {
			return nil
		}

		level, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}
		out = append(out, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", l.Root, err)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// LoadFile loads and validates a single level file.
func (l *Loader) LoadFile(p string) (Level, error) {
	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	parsed, err := formats.ParseYAML(data)
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}

	level := FromFormat(parsed)
	level.FilePath = p
	if level.ID == "" {
		level.ID = path.Base(p[:len(p)-len(path.Ext(p))])
	}
	if err := Validate(level); err != nil {
		return Level{}, fmt.Errorf("validating file %s: %w", p, err)
	}
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, lvl := range all {
		ids[i] = lvl.ID
	}
	return ids, nil
}
