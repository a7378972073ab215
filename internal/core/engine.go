package core

// Rand is the random source used to resolve alias symbols that have no
// capture to redeposit. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// MoveInput is everything one move reads. None of it is modified.
type MoveInput struct {
	Grid      *Grid
	Palette   *Palette
	Aliases   *Aliases
	Rules     []Rule
	Player    *Point
	Direction Point // components in {-1, 0, 1}
}

// MoveResult is the state after a move. When no rule matched, Grid and
// Player are the input values themselves and Rule is -1.
type MoveResult struct {
	Grid   *Grid
	Player *Point
	Rule   int
}

// Moved reports whether a rule was applied.
func (r MoveResult) Moved() bool {
	return r.Rule >= 0
}

// captures queues, per alias symbol, the cells consumed on the match side
// in encounter order.
type captures map[string][]ColorCode

func (c captures) pop(symbol string) (ColorCode, bool) {
	q := c[symbol]
	if len(q) == 0 {
		return "", false
	}
	c[symbol] = q[1:]
	return q[0], true
}

// ruleMatch is a successful match of one rule.
type ruleMatch struct {
	index    int
	start    Point
	captured captures
}

// Step runs one move: the first rule whose match side fits the grid around
// the player is applied to a copy of the grid. A move that matches nothing
// returns the input unchanged. Configuration errors leave the input
// untouched and are returned. rng is only consulted for alias symbols on the
// become side that have no capture left.
func Step(in MoveInput, rng Rand) (MoveResult, error) {
	unchanged := MoveResult{Grid: in.Grid, Player: in.Player, Rule: -1}
	if in.Player == nil || in.Direction == (Point{}) {
		return unchanged, nil
	}
	if err := checkPlayer(in); err != nil {
		return unchanged, err
	}

	m, ok, err := findMatch(in)
	if err != nil || !ok {
		return unchanged, err
	}

	grid := in.Grid.Clone()
	player, err := apply(in, grid, m, rng)
	if err != nil {
		return unchanged, err
	}
	return MoveResult{Grid: grid, Player: &player, Rule: m.index}, nil
}

// FindMatch returns the index of the rule Step would apply, or -1.
func FindMatch(in MoveInput) (int, error) {
	if in.Player == nil || in.Direction == (Point{}) {
		return -1, nil
	}
	if err := checkPlayer(in); err != nil {
		return -1, err
	}
	m, ok, err := findMatch(in)
	if err != nil || !ok {
		return -1, err
	}
	return m.index, nil
}

// checkPlayer rejects a player that is not on the grid. Every grid point
// is in bounds, so such a position can only come from a corrupt design.
func checkPlayer(in MoveInput) error {
	if in.Grid.Contains(*in.Player) {
		return nil
	}
	return newError(CodeInvalidSpawn, "player %v outside %dx%d grid",
		*in.Player, in.Grid.Width(), in.Grid.Height())
}

func findMatch(in MoveInput) (ruleMatch, bool, error) {
	for i, rule := range in.Rules {
		start, captured, ok, err := matchRule(in, rule)
		if err != nil {
			return ruleMatch{}, false, err
		}
		if ok {
			return ruleMatch{index: i, start: start, captured: captured}, true, nil
		}
	}
	return ruleMatch{}, false, nil
}

// matchRule lays rule.Match along the direction so that its player marker
// lands on the player, and checks every symbol against the cell under it.
func matchRule(in MoveInput, rule Rule) (Point, captures, bool, error) {
	offset, err := rule.PlayerOffset()
	if err != nil {
		return Point{}, nil, false, err
	}

	g := in.Grid
	start := g.AddVector(*in.Player, in.Direction.Scale(-offset))
	captured := captures{}

	for i, sym := range Symbols(rule.Match) {
		pos := g.AddVector(start, in.Direction.Scale(i))

		if sym == PlayerMarker && pos.Equal(*in.Player) {
			continue
		}

		cell := g.CellAt(pos)
		if ColorCode(sym) == cell {
			continue
		}
		if sym == Wildcard {
			continue
		}
		if in.Aliases.Matches(AliasName(sym), cell) {
			captured[sym] = append(captured[sym], cell)
			continue
		}
		return Point{}, nil, false, nil
	}
	return start, captured, true, nil
}

// apply writes rule.Become onto grid starting at the match start and
// returns the new player position.
func apply(in MoveInput, grid *Grid, m ruleMatch, rng Rand) (Point, error) {
	player := *in.Player
	rule := in.Rules[m.index]

	for i, sym := range Symbols(rule.Become) {
		pos := grid.AddVector(m.start, in.Direction.Scale(i))

		switch {
		case sym == PlayerMarker:
			player = pos
			if err := grid.ClearTo(in.Aliases, pos); err != nil {
				return Point{}, err
			}

		case in.Palette.Has(ColorCode(sym)):
			// literal codes win over a same-named alias
			grid.SetCellAt(pos, ColorCode(sym))

		case sym == Wildcard:
			// leaves the cell untouched

		default:
			if code, ok := m.captured.pop(sym); ok {
				grid.SetCellAt(pos, code)
				continue
			}
			if !in.Aliases.IsAlias(sym) {
				return Point{}, newError(CodeUnknownSymbol,
					"rule %d: become symbol %q is neither a color code nor an alias", m.index, sym)
			}
			choices := in.Aliases.Expand(AliasName(sym))
			if len(choices) == 0 {
				return Point{}, newError(CodeEmptyAliasExpansion,
					"rule %d: alias %q expands to nothing", m.index, sym)
			}
			grid.SetCellAt(pos, choices[rng.Intn(len(choices))])
		}
	}
	return player, nil
}
