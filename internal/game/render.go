package game

import (
	"fmt"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
)

// PlayerColor is the player token color unless the cell under it is too
// close to it, in which case the cell's contrast color is used.
var PlayerColor = core.RGB(255, 0, 0)

const (
	playerGlyph  = '●'
	unknownGlyph = '?'
	minScreenW   = 20
	minScreenH   = 8
)

// Render draws the HUD and the grid. When the grid does not fit, a
// viewport centered on the player is drawn; the grid is toroidal so the
// view simply wraps.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()

	if s.screenW < minScreenW || s.screenH < minScreenH {
		s.renderTooSmall(dst)
		return
	}

	s.renderHUD(dst)

	viewW := core.Min(s.grid.Width(), s.screenW/s.cellW)
	viewH := core.Min(s.grid.Height(), s.screenH-s.hudHeight-1)
	originX := (s.screenW - viewW*s.cellW) / 2
	s.renderGrid(dst, originX, s.hudHeight, viewW, viewH)

	if s.lastErr != nil {
		dst.DrawText(0, s.screenH-1, truncate(s.lastErr.Error(), s.screenW))
	}
}

// renderTooSmall shows a "window too small" message.
func (s *Session) renderTooSmall(dst *core.Screen) {
	msg := "Window too small"
	y := s.screenH / 2
	dst.DrawText((s.screenW-len(msg))/2, y, msg)

	hint := "Please resize terminal"
	dst.DrawText((s.screenW-len(hint))/2, y+1, hint)
}

// renderHUD draws the title and the move counters.
func (s *Session) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, truncate(s.Title(), s.screenW))

	status := fmt.Sprintf("Moves: %d  Bumps: %d", s.moves, s.bumps)
	if s.lastRule >= 0 {
		status += fmt.Sprintf("  Rule: %s", s.design.Rules[s.lastRule])
	}
	if s.player == nil {
		status = "No spawn point"
	}
	dst.DrawText(0, 1, truncate(status, s.screenW))
}

// renderGrid draws a viewW×viewH window of the grid at screen (x0, y0).
func (s *Session) renderGrid(dst *core.Screen, x0, y0, viewW, viewH int) {
	top := core.P(0, 0)
	if s.player != nil && (viewW < s.grid.Width() || viewH < s.grid.Height()) {
		top = s.grid.AddVector(*s.player, core.P(-viewW/2, -viewH/2))
	}

	for vy := 0; vy < viewH; vy++ {
		for vx := 0; vx < viewW; vx++ {
			pos := s.grid.AddVector(top, core.P(vx, vy))
			cell := s.cellAt(pos)
			for i := 0; i < s.cellW; i++ {
				c := cell
				if i > 0 {
					c.Rune = ' '
				}
				dst.SetCell(x0+vx*s.cellW+i, y0+vy, c)
			}
		}
	}
}

// cellAt returns the screen cell for grid position pos, with the player
// token drawn over it.
func (s *Session) cellAt(pos core.Point) core.Cell {
	bg, err := s.design.Palette.ColorFor(s.grid.CellAt(pos))
	if err != nil {
		return core.Cell{Rune: unknownGlyph}
	}

	cell := core.Cell{Rune: ' ', Bg: bg, Fg: bg.Foreground(), Styled: true}
	if s.player != nil && s.player.Equal(pos) {
		cell.Rune = playerGlyph
		cell.Fg = PlayerColor
		if bg.Similar(PlayerColor, design.DefaultSimilarity) {
			cell.Fg = bg.Foreground()
		}
	}
	return cell
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
