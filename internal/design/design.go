// Package design bundles everything a playable level needs: palette,
// aliases, rules, the original grid and the spawn point. It also provides
// onboarding defaults for fresh designs, validation and a directory loader.
// This package depends on core but core does not depend on design.
package design

import (
	"maps"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design/formats"
)

// Design is an authored level. The grid is the original layout; play
// sessions work on clones of it.
type Design struct {
	ID       string
	Name     string
	Palette  *core.Palette
	Aliases  *core.Aliases
	Rules    []core.Rule
	Grid     *core.Grid
	Player   *core.Point // spawn; nil when the design has none
	Metadata map[string]string
	FilePath string
}

// Title returns the display name, falling back to the ID.
func (d *Design) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Clone returns a deep copy that shares nothing with d.
func (d *Design) Clone() *Design {
	c := *d
	c.Palette = d.Palette.Clone()
	c.Aliases = d.Aliases.Clone()
	c.Rules = core.CloneRules(d.Rules)
	c.Grid = d.Grid.Clone()
	if d.Player != nil {
		p := *d.Player
		c.Player = &p
	}
	c.Metadata = maps.Clone(d.Metadata)
	return &c
}

// MoveInput assembles the engine input for moving the player at player on
// grid in dir, using this design's palette, aliases and rules.
func (d *Design) MoveInput(grid *core.Grid, player *core.Point, dir core.Direction) core.MoveInput {
	return core.MoveInput{
		Grid:      grid,
		Palette:   d.Palette,
		Aliases:   d.Aliases,
		Rules:     d.Rules,
		Player:    player,
		Direction: dir.Delta(),
	}
}

// FromBundle turns a parsed file into a Design. A bundle without aliases
// gets the onboarding aliases; a bundle without rules gets DefaultRules.
func FromBundle(b formats.Bundle) *Design {
	d := &Design{
		ID:       b.ID,
		Name:     b.Name,
		Palette:  b.Palette,
		Aliases:  b.Aliases,
		Rules:    b.Rules,
		Grid:     b.Grid,
		Player:   b.Player,
		Metadata: b.Metadata,
	}
	if d.Aliases == nil {
		d.Aliases = InitialAliases(d.Grid, d.Palette, DefaultSimilarity)
	}
	if d.Rules == nil {
		d.Rules = DefaultRules()
	}
	return d
}

// Bundle converts d for encoding.
func (d *Design) Bundle() formats.Bundle {
	return formats.Bundle{
		ID:       d.ID,
		Name:     d.Name,
		Palette:  d.Palette,
		Aliases:  d.Aliases,
		Rules:    d.Rules,
		Grid:     d.Grid,
		Player:   d.Player,
		Metadata: d.Metadata,
	}
}

// MarshalJSON encodes d as a canonical bundle.
func (d *Design) MarshalJSON() ([]byte, error) {
	return formats.EncodeJSON(d.Bundle())
}

// UnmarshalJSON decodes a canonical bundle.
func (d *Design) UnmarshalJSON(data []byte) error {
	b, err := formats.DecodeJSON(data)
	if err != nil {
		return err
	}
	*d = *FromBundle(b)
	return nil
}
