// Package registry provides a global registry of playable designs.
// Built-in designs register themselves in init() functions; the CLI adds
// designs found on disk or in the library at startup. The platform discovers
// and instantiates sessions without knowing where a design came from.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gamify/internal/core"
)

// Game is a play session over one design.
// Sessions contain pure logic with no external dependencies (especially no
// Bubble Tea). The platform handles input mapping and rendering.
type Game interface {
	// ID returns the design identifier (e.g., "corridor").
	// Used for CLI commands and play records.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset restores the original grid and spawn.
	// The RuntimeConfig provides screen dimensions and the RNG seed used
	// for alias resolution.
	Reset(cfg core.RuntimeConfig)

	// Step applies the actions collected since the previous step.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current play state into the provided screen buffer.
	Render(dst *core.Screen)

	// State returns the current play state.
	State() core.GameState
}

// GameInfo contains metadata about a registered design.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a fresh session.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory to the registry.
// Typically called from an init() function.
// Panics if a design with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: design %q already registered", id))
	}
	put(id, f)
}

// Put adds or replaces a factory. Designs loaded at runtime use it so that
// a user file can shadow a built-in design of the same ID.
func Put(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	put(id, f)
}

func put(id string, f Factory) {
	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f().Title()
}

// List returns information about all registered designs, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new session by design ID.
// Returns an error if the ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown design %q", id)
	}

	return f(), nil
}

// Exists checks if a design with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
