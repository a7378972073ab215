package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Grid is a fixed-size toroidal board of color codes.
// Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	w     int
	h     int
	cells []ColorCode
}

// NewGrid creates a w×h grid with every cell set to fill.
func NewGrid(w, h int, fill ColorCode) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, newError(CodeGridSize, "grid size must be positive, got %dx%d", w, h)
	}
	cells := make([]ColorCode, w*h)
	for i := range cells {
		cells[i] = fill
	}
	return &Grid{w: w, h: h, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// Size returns the dimensions as a point.
func (g *Grid) Size() Point {
	return Point{X: g.w, Y: g.h}
}

// Contains reports whether p is already normalized.
func (g *Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// Wrap reduces p modulo the grid size.
func (g *Grid) Wrap(p Point) Point {
	return Point{X: Mod(p.X, g.w), Y: Mod(p.Y, g.h)}
}

// AddVector returns a+b wrapped onto the grid. The result is always a
// valid cell.
func (g *Grid) AddVector(a, b Point) Point {
	return g.Wrap(a.Add(b))
}

// CellAt returns the code at p. p must be normalized.
func (g *Grid) CellAt(p Point) ColorCode {
	return g.cells[p.Y*g.w+p.X]
}

// SetCellAt writes code at p. p must be normalized.
func (g *Grid) SetCellAt(p Point, code ColorCode) {
	g.cells[p.Y*g.w+p.X] = code
}

// IsEmpty reports whether the cell at p belongs to the blank alias.
func (g *Grid) IsEmpty(aliases *Aliases, p Point) bool {
	return aliases.Matches(BlankAlias, g.CellAt(p))
}

// ClearTo makes the cell at p blank, using the first code of the blank
// alias. Cells that are already blank are left as they are.
func (g *Grid) ClearTo(aliases *Aliases, p Point) error {
	blanks := aliases.Expand(BlankAlias)
	if len(blanks) == 0 {
		return newError(CodeNoBlankDefined, "alias %q expands to nothing", BlankAlias)
	}
	cell := g.CellAt(p)
	for _, b := range blanks {
		if b == cell {
			return nil
		}
	}
	g.SetCellAt(p, blanks[0])
	return nil
}

// ForEachCell visits every cell in row-major order.
func (g *Grid) ForEachCell(visit func(p Point, code ColorCode)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			visit(Point{X: x, Y: y}, g.cells[y*g.w+x])
		}
	}
}

// CountColors returns a histogram of cell codes.
func (g *Grid) CountColors() map[ColorCode]int {
	counts := make(map[ColorCode]int)
	for _, c := range g.cells {
		counts[c]++
	}
	return counts
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]ColorCode, len(g.cells))
	copy(cells, g.cells)
	return &Grid{w: g.w, h: g.h, cells: cells}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.w != other.w || g.h != other.h {
		return false
	}
	for i, c := range g.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

// singleRune reports whether every code is exactly one rune long, which
// allows the compact undelimited row encoding.
func (g *Grid) singleRune() bool {
	for _, c := range g.cells {
		if utf8.RuneCountInString(string(c)) != 1 {
			return false
		}
	}
	return true
}

// Rows encodes the grid one string per row. With an empty delimiter every
// code must be a single rune.
func (g *Grid) Rows(delimiter string) []string {
	rows := make([]string, g.h)
	parts := make([]string, g.w)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			parts[x] = string(g.cells[y*g.w+x])
		}
		rows[y] = strings.Join(parts, delimiter)
	}
	return rows
}

// GridFromRows decodes rows produced by Rows. Every row must hold exactly
// w codes and there must be exactly h rows.
func GridFromRows(w, h int, rows []string, delimiter string) (*Grid, error) {
	g, err := NewGrid(w, h, "")
	if err != nil {
		return nil, err
	}
	if len(rows) != h {
		return nil, newError(CodeGridSize, "expected %d rows, got %d", h, len(rows))
	}
	for y, row := range rows {
		var codes []string
		if delimiter == "" {
			for _, r := range row {
				codes = append(codes, string(r))
			}
		} else {
			codes = strings.Split(row, delimiter)
		}
		if len(codes) != w {
			return nil, newError(CodeGridSize, "row %d: expected %d cells, got %d", y, w, len(codes))
		}
		for x, c := range codes {
			g.cells[y*w+x] = ColorCode(c)
		}
	}
	return g, nil
}

// GridDelimiter is used for the row encoding when a grid holds multi-rune codes.
const GridDelimiter = ","

// gridJSON is the persisted grid shape.
type gridJSON struct {
	Size      Point    `json:"size"`
	Data      []string `json:"data"`
	Delimiter string   `json:"delimiter,omitempty"`
}

// MarshalJSON encodes {"size": {"x","y"}, "data": [rows]}.
func (g *Grid) MarshalJSON() ([]byte, error) {
	delim := g.RowDelimiter()
	if delim != "" {
		for _, c := range g.cells {
			if strings.Contains(string(c), delim) {
				return nil, newError(CodeUnknownCode, "grid: code %q contains the row delimiter %q", c, delim)
			}
		}
	}
	return json.Marshal(gridJSON{Size: g.Size(), Data: g.Rows(delim), Delimiter: delim})
}

// UnmarshalJSON decodes the shape written by MarshalJSON.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var gj gridJSON
	if err := json.Unmarshal(data, &gj); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	loaded, err := GridFromRows(gj.Size.X, gj.Size.Y, gj.Data, gj.Delimiter)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	*g = *loaded
	return nil
}

// RowDelimiter returns the delimiter MarshalJSON would use for this grid.
func (g *Grid) RowDelimiter() string {
	if g.singleRune() {
		return ""
	}
	return GridDelimiter
}
