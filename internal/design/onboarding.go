package design

import (
	"github.com/vovakirdan/gamify/internal/core"
)

// DefaultSimilarity is the Manhattan distance under which a color joins the
// dominant color in the blank alias.
const DefaultSimilarity = 150

// DefaultRules returns the rule set fresh designs start with: pull a block,
// walk, push one block, push two blocks.
func DefaultRules() []core.Rule {
	return []core.Rule{
		{Match: "#> ", Become: " #>"},
		{Match: "> ", Become: " >"},
		{Match: "># ", Become: " >#"},
		{Match: ">## ", Become: " >##"},
	}
}

// DominantCode returns the most frequent code of g. Ties go to the code
// that first appears later in row-major order.
func DominantCode(g *core.Grid) core.ColorCode {
	counts := make(map[core.ColorCode]int)
	var order []core.ColorCode
	g.ForEachCell(func(_ core.Point, code core.ColorCode) {
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	})

	var best core.ColorCode
	bestCount := 0
	for _, code := range order {
		if counts[code] >= bestCount {
			best, bestCount = code, counts[code]
		}
	}
	return best
}

// InitialAliases splits the codes of g into the blank alias (the dominant
// color and colors similar to it) and the solid alias (everything else).
// Members are listed in order of first appearance. Codes missing from the
// palette only match the dominant code exactly.
func InitialAliases(g *core.Grid, p *core.Palette, threshold int) *core.Aliases {
	a := core.NewAliases()
	dominant := DominantCode(g)
	base, baseErr := p.ColorFor(dominant)

	seen := make(map[core.ColorCode]bool)
	g.ForEachCell(func(_ core.Point, code core.ColorCode) {
		if seen[code] {
			return
		}
		seen[code] = true

		blank := code == dominant
		if !blank && baseErr == nil {
			if c, err := p.ColorFor(code); err == nil {
				blank = c.Similar(base, threshold)
			}
		}
		if blank {
			a.Define(core.BlankAlias, string(code))
		} else {
			a.Define(core.SolidAlias, string(code))
		}
	})
	return a
}

// EmptyCells returns every cell that belongs to the blank alias, in
// row-major order.
func EmptyCells(g *core.Grid, a *core.Aliases) []core.Point {
	var out []core.Point
	g.ForEachCell(func(p core.Point, _ core.ColorCode) {
		if g.IsEmpty(a, p) {
			out = append(out, p)
		}
	})
	return out
}

// FindRandomEmpty picks a uniformly random empty cell, or nil when the
// grid has none.
func FindRandomEmpty(g *core.Grid, a *core.Aliases, rng core.Rand) *core.Point {
	cells := EmptyCells(g, a)
	if len(cells) == 0 {
		return nil
	}
	p := cells[rng.Intn(len(cells))]
	return &p
}

// FromPixels builds a fresh design from a row-major color raster: codes
// are allocated in scan order, aliases and rules come from onboarding and
// the spawn is a random empty cell.
func FromPixels(id string, pixels [][]core.Color, threshold int, rng core.Rand) (*Design, error) {
	h := len(pixels)
	w := 0
	if h > 0 {
		w = len(pixels[0])
	}
	g, err := core.NewGrid(w, h, "")
	if err != nil {
		return nil, err
	}

	p := core.NewPalette()
	for y, row := range pixels {
		if len(row) != w {
			return nil, core.NewError(core.CodeGridSize, "pixel row %d: expected %d columns, got %d", y, w, len(row))
		}
		for x, c := range row {
			g.SetCellAt(core.P(x, y), p.CodeFor(c))
		}
	}

	a := InitialAliases(g, p, threshold)
	return &Design{
		ID:      id,
		Name:    id,
		Palette: p,
		Aliases: a,
		Rules:   DefaultRules(),
		Grid:    g,
		Player:  FindRandomEmpty(g, a, rng),
	}, nil
}
