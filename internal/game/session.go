// Package game provides play sessions over designs. A session owns the play
// state (current grid and player) and runs the rule engine on each
// directional input; the design it plays is never modified.
package game

import (
	"math/rand"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
)

// Session implements registry.Game for a single design.
type Session struct {
	design *design.Design
	rng    *rand.Rand

	// Play state
	grid     *core.Grid
	player   *core.Point
	moves    int
	bumps    int
	lastRule int
	lastErr  error

	// Screen dimensions
	screenW int
	screenH int

	// Rendering config
	cellW     int // Width of each grid cell in terminal chars
	hudHeight int
}

// New creates a session over d, ready to play with seed 0.
func New(d *design.Design) *Session {
	s := &Session{
		design:    d,
		rng:       rand.New(rand.NewSource(0)),
		cellW:     2, // Each cell is 2 chars wide
		hudHeight: 3,
	}
	s.restart()
	return s
}

// ID returns the design identifier.
func (s *Session) ID() string {
	return s.design.ID
}

// Title returns the design's display name.
func (s *Session) Title() string {
	return s.design.Title()
}

// Design returns the design being played.
func (s *Session) Design() *design.Design {
	return s.design
}

// Reset reseeds alias resolution and restores the original grid and spawn.
func (s *Session) Reset(cfg core.RuntimeConfig) {
	s.rng = rand.New(rand.NewSource(cfg.Seed))
	s.screenW = cfg.ScreenW
	s.screenH = cfg.ScreenH
	s.restart()
}

// Resize changes the screen dimensions without touching the play state.
func (s *Session) Resize(w, h int) {
	s.screenW = w
	s.screenH = h
}

// restart copies the design's grid and spawn into the play state.
func (s *Session) restart() {
	s.grid = s.design.Grid.Clone()
	s.player = nil
	if s.design.Player != nil {
		p := *s.design.Player
		s.player = &p
	}
	s.moves = 0
	s.bumps = 0
	s.lastRule = -1
	s.lastErr = nil
}

// Step handles reset and every directional action of the frame, in order.
// A configuration error stops the remaining moves of the frame.
func (s *Session) Step(in core.InputFrame) core.StepResult {
	if in.Has(core.ActionReset) {
		s.restart()
		return core.StepResult{State: s.State()}
	}

	moved := false
	for _, dir := range in.Moves() {
		ok, err := s.Move(dir)
		if err != nil {
			break
		}
		moved = moved || ok
	}
	return core.StepResult{State: s.State(), Moved: moved}
}

// Move runs one engine step in dir. It reports whether a rule fired.
// On error the play state is left as it was and the error is kept for
// display until the next move.
func (s *Session) Move(dir core.Direction) (bool, error) {
	res, err := core.Step(s.design.MoveInput(s.grid, s.player, dir), s.rng)
	s.lastRule = res.Rule
	s.lastErr = err
	if err != nil {
		return false, err
	}
	if !res.Moved() {
		s.bumps++
		return false, nil
	}

	s.grid = res.Grid
	s.player = res.Player
	s.moves++
	return true, nil
}

// Grid returns the current grid. Callers must not modify it.
func (s *Session) Grid() *core.Grid {
	return s.grid
}

// Player returns a copy of the current player position, or nil.
func (s *Session) Player() *core.Point {
	if s.player == nil {
		return nil
	}
	p := *s.player
	return &p
}

// LastRule returns the index of the rule applied by the last move, or -1.
func (s *Session) LastRule() int {
	return s.lastRule
}

// State returns the current play state.
func (s *Session) State() core.GameState {
	return core.GameState{
		Moves:   s.moves,
		Bumps:   s.bumps,
		Player:  s.Player(),
		LastErr: s.lastErr,
	}
}
