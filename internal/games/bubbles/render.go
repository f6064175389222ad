package bubbles

import (
	"fmt"
	"math"

	"github.com/vovakirdan/hexbubble/internal/core"
	"github.com/vovakirdan/hexbubble/internal/games/bubbles/hexgrid"
)

// Glyphs per bubble kind.
const (
	glyphBubble   = '●'
	glyphSpell    = '✦'
	glyphNero     = '◆'
	glyphFairy    = '✿'
	glyphPop      = '*'
	glyphDrop     = 'o'
	glyphLauncher = '▲'
	glyphLoseLine = '┄'
)

// TypeColor maps a bubble type to its screen color.
func TypeColor(t hexgrid.BubbleType) core.Color {
	switch t {
	case hexgrid.TypeRed:
		return core.ColorRed
	case hexgrid.TypeGreen:
		return core.ColorGreen
	case hexgrid.TypeBlue:
		return core.ColorBlue
	case hexgrid.TypeSpell:
		return core.ColorMagenta
	case hexgrid.TypeNero:
		return core.ColorOrange
	default:
		return core.ColorDefault
	}
}

func typeGlyph(t hexgrid.BubbleType) rune {
	switch t {
	case hexgrid.TypeSpell:
		return glyphSpell
	case hexgrid.TypeNero:
		return glyphNero
	default:
		return glyphBubble
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.grid == nil {
		dst.DrawTextCentered(g.screenH/2, "No levels available")
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)
	g.renderEffects(dst)
	g.renderLauncher(dst)
	g.renderOverlays(dst)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// toScreen converts a world position to screen coordinates.
func toScreen(p core.Vec2) (int, int) {
	return int(math.Round(p.X)), hudHeight + int(math.Round(p.Y))
}

// renderHUD draws score, combo, shots and level info.
func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, g.Title())

	left := fmt.Sprintf("Score: %d  Combo: x%d  Shots: %d", g.session.Score, g.session.Combo, g.shotsLeft)
	dst.DrawText(1, 1, left)

	var info string
	if g.mode == ModeCampaign {
		lvl := g.levels[g.levelIndex]
		info = fmt.Sprintf("Level %d/%d: %s", g.levelIndex+1, len(g.levels), lvl.Name)
	} else {
		info = fmt.Sprintf("Difficulty %d%%", int(g.diff.Level(g.session.Score, int(g.tick))*100))
	}
	dst.DrawText(1, 2, info)

	next := "Next: "
	x := g.screenW - len(next) - 3
	dst.DrawText(x, 1, next)
	dst.SetColored(x+len(next), 1, typeGlyph(g.next), TypeColor(g.next))
}

// renderBoard draws every bubble and the lose line.
func (g *Game) renderBoard(dst *core.Screen) {
	top := hudHeight
	for _, c := range g.grid.Occupied() {
		b := g.grid.At(c)
		x, y := toScreen(g.grid.ToWorld(c.Row, c.Col))
		if y < top {
			continue
		}
		glyph := typeGlyph(b.Type)
		if b.Fairy {
			glyph = glyphFairy
		}
		dst.SetColored(x, y, glyph, TypeColor(b.Type))
	}

	l := g.grid.Layout()
	_, lineY := toScreen(g.grid.ToWorld(g.loseRow(), 0))
	if lineY >= top && lineY < g.screenH {
		x0 := int(l.Origin.X - l.CellWidth/2)
		width := int(float64(g.grid.Cols())*l.CellWidth + l.CellWidth/2)
		for x := x0; x < x0+width; x++ {
			if dst.Get(x, lineY) == ' ' {
				dst.SetColored(x, lineY, glyphLoseLine, core.ColorGray)
			}
		}
	}
}

// renderEffects draws pops, drops and fairies.
func (g *Game) renderEffects(dst *core.Screen) {
	for _, fx := range g.effects.List() {
		x, y := toScreen(fx.Pos)
		if y < hudHeight {
			continue
		}
		switch fx.Kind {
		case EffectPop:
			dst.SetColored(x, y, glyphPop, TypeColor(fx.Type))
		case EffectDrop:
			dst.SetColored(x, y, glyphDrop, TypeColor(fx.Type))
		case EffectFairy:
			dst.SetColored(x, y, glyphFairy, core.ColorYellow)
		}
	}
}

// renderLauncher draws the projectile, the launcher and the loaded bubble.
func (g *Game) renderLauncher(dst *core.Screen) {
	if g.shot != nil {
		x, y := toScreen(g.shot.Pos)
		dst.SetColored(x, y, typeGlyph(g.shot.Bubble.Type), TypeColor(g.shot.Bubble.Type))
	}

	x, y := toScreen(g.launchPos())
	dst.SetColored(x, y, glyphLauncher, core.ColorWhite)
	if g.shot == nil {
		dst.SetColored(x, y+1, typeGlyph(g.loaded), TypeColor(g.loaded))
	}
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen) {
	centerX := g.screenW / 2
	centerY := g.screenH / 2

	switch {
	case g.paused:
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.levelCleared:
		if g.levelIndex >= len(g.levels)-1 {
			g.drawOverlay(dst, centerX, centerY, "BOARD CLEARED!", "Final level complete!")
		} else {
			g.drawOverlay(dst, centerX, centerY, "BOARD CLEARED!", fmt.Sprintf("Next: Level %d", g.levelIndex+2))
		}
	case g.won:
		g.drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!",
			fmt.Sprintf("Score: %d  Best combo: x%d", g.session.Score, g.session.BestCombo), "Press R to restart")
	case g.gameOver:
		g.drawOverlay(dst, centerX, centerY, "GAME OVER",
			fmt.Sprintf("Score: %d  Best combo: x%d", g.session.Score, g.session.BestCombo), "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len([]rune(line)))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	// Clear area behind overlay
	for y := boxY; y < boxY+boxH; y++ {
		for x := boxX; x < boxX+boxW; x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(core.Rect{X: boxX, Y: boxY, W: boxW, H: boxH})

	for i, line := range lines {
		x := centerX - len([]rune(line))/2
		dst.DrawText(x, boxY+1+i, line)
	}
}
