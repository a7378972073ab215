package core

// RuntimeConfig contains configuration passed to a play session at start.
type RuntimeConfig struct {
	ScreenW int   // Screen width in characters
	ScreenH int   // Screen height in characters
	Seed    int64 // RNG seed for alias resolution and spawn selection
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Seed:    0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a play session.
type GameState struct {
	Moves   int    // Rule applications since the last reset
	Bumps   int    // Directional inputs that matched no rule
	Player  *Point // nil when the design has no spawn
	LastErr error  // Configuration error raised by the last move, if any
}

// StepResult is returned by Game.Step() after each input frame.
type StepResult struct {
	State GameState
	Moved bool // Whether any rule fired during this step
}
