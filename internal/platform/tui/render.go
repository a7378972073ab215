package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gamify/internal/core"
)

// cellStyle returns the lipgloss style for a cell's colors.
func cellStyle(c core.Cell) lipgloss.Style {
	if !c.Styled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.Fg.Hex())).
		Background(lipgloss.Color(c.Bg.Hex()))
}

// sameStyle reports whether two cells render with the same colors.
func sameStyle(a, b core.Cell) bool {
	if a.Styled != b.Styled {
		return false
	}
	return !a.Styled || (a.Fg == b.Fg && a.Bg == b.Bg)
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			// Collect consecutive cells with the same colors
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if !sameStyle(cell, start) {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if !start.Styled {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(cellStyle(start).Render(run.String()))
		}
	}
	return sb.String()
}
