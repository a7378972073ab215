package game

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/gamify/internal/design"
	"github.com/vovakirdan/gamify/internal/storage"
)

// Catalog merges the design sources the CLI and servers offer: the
// built-in designs, a directory of design files and the saved library.
// For equal IDs the later source wins, in that order.
type Catalog struct {
	Dir   string         // optional design directory
	Store *storage.Store // optional saved library
}

// Designs returns every design, sorted by ID.
func (c *Catalog) Designs() ([]*design.Design, error) {
	byID := make(map[string]*design.Design)

	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, d := range builtin {
		byID[d.ID] = d
	}

	if c.Dir != "" {
		designs, err := design.NewLoader(c.Dir).LoadAll()
		if err != nil {
			return nil, fmt.Errorf("game: designs dir: %w", err)
		}
		for _, d := range designs {
			byID[d.ID] = d
		}
	}

	if c.Store != nil {
		entries, err := c.Store.ListDesigns()
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			d, err := c.Store.LoadDesign(e.ID)
			if err != nil {
				return nil, err
			}
			if d != nil {
				byID[d.ID] = d
			}
		}
	}

	out := make([]*design.Design, 0, len(byID))
	for _, d := range byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Design returns the design with id, or nil when no source has it.
func (c *Catalog) Design(id string) (*design.Design, error) {
	if c.Store != nil {
		d, err := c.Store.LoadDesign(id)
		if err != nil || d != nil {
			return d, err
		}
	}
	if c.Dir != "" {
		d, err := design.NewLoader(c.Dir).LoadByID(id)
		if err == nil {
			return d, nil
		}
	}
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	for _, d := range builtin {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, nil
}
