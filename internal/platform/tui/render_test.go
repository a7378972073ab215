package tui

import (
	"regexp"
	"strings"
	"testing"

	"github.com/vovakirdan/gamify/internal/core"
)

var ansiEscape = regexp.MustCompile("\x1b\\[[0-9;]*m")

func stripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

func TestRenderScreenText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	red := core.Cell{Rune: '●', Fg: core.RGB(255, 0, 0), Bg: core.RGB(0, 0, 0), Styled: true}
	s.SetCell(2, 0, red)
	s.SetCell(3, 0, red)
	s.SetCell(4, 0, core.Cell{Rune: ' ', Bg: core.RGB(0, 0, 255), Styled: true})
	s.DrawText(0, 1, "second")

	got := stripANSI(RenderScreen(s))
	if got != s.String() {
		t.Errorf("expected text %q, got %q", s.String(), got)
	}
	if lines := strings.Split(got, "\n"); len(lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(lines))
	}
}

func TestSameStyle(t *testing.T) {
	black := core.RGB(0, 0, 0)
	white := core.RGB(255, 255, 255)

	tests := []struct {
		name string
		a, b core.Cell
		want bool
	}{
		{"both plain", core.Cell{Rune: 'a'}, core.Cell{Rune: 'b', Fg: white}, true},
		{"plain and styled", core.Cell{}, core.Cell{Styled: true}, false},
		{"same colors", core.Cell{Fg: white, Bg: black, Styled: true}, core.Cell{Rune: 'x', Fg: white, Bg: black, Styled: true}, true},
		{"different background", core.Cell{Bg: black, Styled: true}, core.Cell{Bg: white, Styled: true}, false},
		{"different foreground", core.Cell{Fg: black, Styled: true}, core.Cell{Fg: white, Styled: true}, false},
	}

	for _, tc := range tests {
		if got := sameStyle(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
