package design

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/gamify/internal/core"
)

// Validate checks d for every configuration problem the engine could hit
// while playing it and returns them joined, or nil.
// Checks:
//   - every grid cell is a palette code
//   - the blank alias expands to at least one code
//   - alias members resolve to palette codes
//   - every rule has exactly one player marker
//   - become symbols can always be resolved
//   - the spawn lies on the grid
func Validate(d *Design) error {
	return errors.Join(Problems(d)...)
}

// Problems returns every problem Validate would report, in check order.
func Problems(d *Design) []error {
	if d.Grid == nil {
		return []error{core.NewError(core.CodeGridSize, "design has no grid")}
	}
	if d.Palette == nil {
		return []error{core.NewError(core.CodeUnknownCode, "design has no palette")}
	}
	aliases := d.Aliases
	if aliases == nil {
		aliases = core.NewAliases()
	}

	var problems []error
	problems = append(problems, validateCells(d.Grid, d.Palette)...)

	if len(aliases.Expand(core.BlankAlias)) == 0 {
		problems = append(problems, core.NewError(core.CodeNoBlankDefined,
			"alias %q expands to nothing", core.BlankAlias))
	}
	problems = append(problems, validateAliases(aliases, d.Palette)...)

	for i, r := range d.Rules {
		if err := r.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		problems = append(problems, validateBecome(i, r, aliases, d.Palette)...)
	}

	if d.Player != nil && !d.Grid.Contains(*d.Player) {
		problems = append(problems, core.NewError(core.CodeInvalidSpawn,
			"spawn %v outside %dx%d grid", *d.Player, d.Grid.Width(), d.Grid.Height()))
	}
	return problems
}

// validateCells reports each unknown code once, with its first position.
func validateCells(g *core.Grid, p *core.Palette) []error {
	var problems []error
	reported := make(map[core.ColorCode]bool)
	g.ForEachCell(func(pos core.Point, code core.ColorCode) {
		if p.Has(code) || reported[code] {
			return
		}
		reported[code] = true
		problems = append(problems, core.NewError(core.CodeUnknownCode,
			"cell %v holds code %q which is not in the palette", pos, code))
	})
	return problems
}

func validateAliases(a *core.Aliases, p *core.Palette) []error {
	var problems []error
	for _, name := range a.Names() {
		for _, m := range a.Members(name) {
			if a.IsAlias(m) || p.Has(core.ColorCode(m)) {
				continue
			}
			problems = append(problems, core.NewError(core.CodeUnknownCode,
				"alias %q member %q is neither an alias nor a palette code", name, m))
		}
	}
	return problems
}

// validateBecome flags become symbols that would fail at apply time. A
// symbol used no more often on the become side than on the match side is
// always served from captures, so it needs no expansion of its own.
func validateBecome(index int, r core.Rule, a *core.Aliases, p *core.Palette) []error {
	matchCount := make(map[string]int)
	for _, s := range core.Symbols(r.Match) {
		matchCount[s]++
	}
	becomeCount := make(map[string]int)
	for _, s := range core.Symbols(r.Become) {
		becomeCount[s]++
	}

	var problems []error
	checked := make(map[string]bool)
	for _, s := range core.Symbols(r.Become) {
		if checked[s] {
			continue
		}
		checked[s] = true

		switch {
		case core.IsReservedSymbol(s), p.Has(core.ColorCode(s)):
			continue
		case becomeCount[s] <= matchCount[s]:
			continue
		case !a.IsAlias(s):
			problems = append(problems, fmt.Errorf("rule %d: %w", index, core.NewError(core.CodeUnknownSymbol,
				"become symbol %q is neither a color code nor an alias", s)))
		case len(a.Expand(core.AliasName(s))) == 0:
			problems = append(problems, fmt.Errorf("rule %d: %w", index, core.NewError(core.CodeEmptyAliasExpansion,
				"become symbol %q expands to nothing", s)))
		}
	}
	return problems
}
