package game

import "github.com/vovakirdan/gamify/internal/core"

// Snapshot captures the play state for determinism testing and replay.
type Snapshot struct {
	ID     string
	Moves  int
	Bumps  int
	Rule   int // Rule applied by the last move, -1 for none
	Player *core.Point
	Rows   []string // grid rows, joined with Delim
	Delim  string
}

// Snapshot returns the current play state.
func (s *Session) Snapshot() Snapshot {
	delim := s.grid.RowDelimiter()
	return Snapshot{
		ID:     s.ID(),
		Moves:  s.moves,
		Bumps:  s.bumps,
		Rule:   s.lastRule,
		Player: s.Player(),
		Rows:   s.grid.Rows(delim),
		Delim:  delim,
	}
}
