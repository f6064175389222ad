package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/levels"
)

// Game IDs the menu can start.
const (
	campaignID = "bubbles"
	endlessID  = "bubbles_endless"
)

// menuEntry is one line of the main menu.
type menuEntry int

const (
	entryCampaign menuEntry = iota
	entryEndless
	entryLevels
	entryScores
)

var menuEntries = []string{
	"Campaign",
	"Endless Mode",
	"Select Level...",
	"High Scores",
}

// LevelInfo is a level shown in the picker.
type LevelInfo struct {
	ID    string
	Name  string
	Shots int
}

// MenuModel is the Bubble Tea model for the mode and level picker.
type MenuModel struct {
	levels        []LevelInfo
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	result        MenuResult
	done          bool
}

// NewMenuModel creates a new menu model. Levels come from the loader.
func NewMenuModel(loader *levels.Loader, cfg core.RuntimeConfig) MenuModel {
	var infos []LevelInfo
	if loader != nil {
		if all, err := loader.LoadAll(); err == nil {
			for _, l := range all {
				infos = append(infos, LevelInfo{ID: l.ID, Name: l.Name, Shots: l.Shots})
			}
		}
	}

	return MenuModel{
		levels:    infos,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelKey(action)
		}
		return m.handleMenuKey(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) finish(r MenuResult) (tea.Model, tea.Cmd) {
	m.result = r
	m.done = true
	return m, tea.Quit
}

func (m MenuModel) handleMenuKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		return m.finish(MenuResult{Quit: true})
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}
	case MenuActionScoreboard:
		return m.finish(MenuResult{WantsScoreboard: true})
	case MenuActionSelect:
		switch menuEntry(m.cursor) {
		case entryCampaign:
			return m.finish(MenuResult{GameID: campaignID})
		case entryEndless:
			return m.finish(MenuResult{GameID: endlessID})
		case entryLevels:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = 0
			}
		case entryScores:
			return m.finish(MenuResult{WantsScoreboard: true})
		}
	}
	return m, nil
}

func (m MenuModel) handleLevelKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		return m.finish(MenuResult{Quit: true})
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.finish(MenuResult{GameID: campaignID, StartLevel: m.levelCursor + 1})
	case MenuActionBack:
		m.inLevelSelect = false
	}
	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu.
func (m MenuModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	if m.inLevelSelect {
		b.WriteString(menuTitleStyle.Render(centerText("SELECT LEVEL", m.width)))
		b.WriteString("\n\n")
		for i, l := range m.levels {
			line := fmt.Sprintf("%2d. %s (%d shots)", i+1, l.Name, l.Shots)
			b.WriteString(m.renderItem(line, i == m.levelCursor))
		}
	} else {
		b.WriteString(menuTitleStyle.Render(centerText("H E X   B U B B L E", m.width)))
		b.WriteString("\n\n")
		for i, entry := range menuEntries {
			b.WriteString(m.renderItem(entry, i == m.cursor))
		}
	}

	b.WriteString("\n")
	b.WriteString(menuHintStyle.Render(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Esc: Back  |  Q: Quit", m.width)))
	b.WriteString("\n")
	return b.String()
}

func (m MenuModel) renderItem(text string, selected bool) string {
	if selected {
		return menuCursorStyle.Render(centerText("> "+text, m.width)) + "\n"
	}
	return centerText("  "+text, m.width) + "\n"
}

// Result returns the menu outcome once the menu has closed.
func (m MenuModel) Result() MenuResult {
	r := m.result
	r.Config = m.config
	if !m.done {
		r.Quit = true
	}
	return r
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := lipgloss.Width(text)
	if n >= width {
		return text
	}
	return strings.Repeat(" ", (width-n)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	StartLevel      int // 1-based, 0 to start from the first level
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(loader *levels.Loader, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(loader, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
