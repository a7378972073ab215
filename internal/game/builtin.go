package game

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/registry"
)

//go:embed designs
var builtinFS embed.FS

func init() {
	designs, err := Builtin()
	if err != nil {
		panic(err)
	}
	for _, d := range designs {
		registry.Register(d.ID, func() registry.Game {
			return New(d)
		})
	}
}

// Builtin loads the designs shipped with the binary, sorted by ID.
func Builtin() ([]*design.Design, error) {
	sub, err := fs.Sub(builtinFS, "designs")
	if err != nil {
		return nil, fmt.Errorf("game: built-in designs: %w", err)
	}
	return design.NewFSLoader(sub).LoadAll()
}

// Register makes d playable through the registry, replacing any design
// with the same ID.
func Register(d *design.Design) {
	registry.Put(d.ID, func() registry.Game {
		return New(d)
	})
}
