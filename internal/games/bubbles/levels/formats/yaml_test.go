package formats_test

import (
	"testing"

	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels/formats"
)

func TestParseYAMLLayout(t *testing.T) {
	data := []byte(`
id: t01
name: Test
layout:
  - "R G b ."
  - " . S N ."
queue: [red, spell]
`)
	lvl, err := formats.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}

	if lvl.Rows != 2 || lvl.Cols != 4 {
		t.Errorf("size = %dx%d, want 2x4", lvl.Rows, lvl.Cols)
	}
	if lvl.Shots != formats.DefaultShots {
		t.Errorf("shots = %d, want default", lvl.Shots)
	}
	if len(lvl.Cells) != 5 {
		t.Fatalf("cells = %d, want 5", len(lvl.Cells))
	}

	fairy := lvl.Cells[2]
	if fairy.Row != 0 || fairy.Col != 2 || fairy.Type != hexgrid.TypeBlue || !fairy.Fairy {
		t.Errorf("fairy cell = %+v", fairy)
	}
	nero := lvl.Cells[4]
	if nero.Row != 1 || nero.Col != 2 || nero.Type != hexgrid.TypeNero {
		t.Errorf("nero cell = %+v", nero)
	}
	if len(lvl.Queue) != 2 || lvl.Queue[1] != hexgrid.TypeSpell {
		t.Errorf("queue = %v", lvl.Queue)
	}
}

func TestParseYAMLCells(t *testing.T) {
	data := []byte(`
id: t02
size: {rows: 6, cols: 7}
shots: 12
cells:
  - {row: 0, col: 3, type: green}
  - {row: 1, col: 3, type: red, fairy: true}
`)
	lvl, err := formats.ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if lvl.Rows != 6 || lvl.Cols != 7 || lvl.Shots != 12 {
		t.Errorf("level = %+v", lvl)
	}
	if len(lvl.Cells) != 2 || !lvl.Cells[1].Fairy {
		t.Errorf("cells = %+v", lvl.Cells)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "id: [unclosed"},
		{"bad layout char", "layout:\n  - \"R X\""},
		{"bad cell type", "cells:\n  - {row: 0, col: 0, type: purple}"},
		{"bad queue type", "queue: [orange]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := formats.ParseYAML([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	if !formats.IsSupported("a/b/lvl.YAML") || !formats.IsSupported("x.yml") {
		t.Error("yaml extensions should be supported")
	}
	if formats.IsSupported("readme.md") {
		t.Error("markdown should not be supported")
	}
}
