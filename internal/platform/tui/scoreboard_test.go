package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hexbubble/internal/registry"
	"github.com/vovakirdan/hexbubble/internal/storage"
)

func init() {
	registry.Register("fake", func() registry.Game { return &fakeGame{} })
}

func TestScoreboardViews(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveScore("fake", 420); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSession(storage.Session{GameID: "fake", Mode: "campaign", Level: 3, Score: 420, BestCombo: 4, Matches: 6, Misses: 2}); err != nil {
		t.Fatal(err)
	}

	var m tea.Model = NewScoreboardModel(store, 80, 24)
	view := m.View()
	if !strings.Contains(view, "HIGH SCORES") || !strings.Contains(view, "420") {
		t.Errorf("scores view missing data:\n%s", view)
	}
	if !strings.Contains(view, "Best combo: 4") {
		t.Errorf("stats line missing:\n%s", view)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	view = m.View()
	if !strings.Contains(view, "RECENT SESSIONS") {
		t.Errorf("toggle should switch to sessions:\n%s", view)
	}

	m = press(t, m, keyEsc)
	sb := m.(ScoreboardModel)
	if !sb.IsGoingBack() || sb.IsQuitting() {
		t.Error("esc should go back to the menu")
	}
	if sb.View() != "" {
		t.Error("closed scoreboard should render nothing")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	var m tea.Model = NewScoreboardModel(nil, 40, 12)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.View(), "Nothing recorded yet") {
		t.Error("empty scoreboard should say so")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.(ScoreboardModel).IsQuitting() {
		t.Error("q should quit")
	}
}
