package formats

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/vovakirdan/gamify/internal/core"
)

// DetectFormat sniffs a JSON document for the schema it follows.
func DetectFormat(data []byte) Format {
	if !gjson.ValidBytes(data) {
		return FormatUnknown
	}
	doc := gjson.ParseBytes(data)
	switch {
	case doc.Get("grid.size").Exists() && doc.Get("grid.data").IsArray():
		return FormatCanonical
	case doc.Get("gridSize").Exists() && doc.Get("grid").IsArray():
		return FormatLegacy
	default:
		return FormatUnknown
	}
}

// DecodeLegacy imports the older square-grid export:
//
//	{"gridSize": N, "grid": [rows], "palette": [[code, color]] | {"color_to_code": ...},
//	 "colorStates": [[code, isSolid]], "rules": [...], "player": {...}}
//
// Rows are strings of single-rune codes or arrays of codes. Colors may be
// "#rrggbb", "r,g,b" or [r, g, b]. Aliases are only produced when
// colorStates is present.
func DecodeLegacy(data []byte) (Bundle, error) {
	if !gjson.ValidBytes(data) {
		return Bundle{}, fmt.Errorf("legacy: invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	size := int(doc.Get("gridSize").Int())
	grid, err := legacyGrid(doc.Get("grid"), size)
	if err != nil {
		return Bundle{}, fmt.Errorf("legacy: %w", err)
	}

	palette, err := legacyPalette(doc.Get("palette"))
	if err != nil {
		return Bundle{}, fmt.Errorf("legacy: %w", err)
	}

	b := Bundle{
		ID:      doc.Get("id").String(),
		Name:    doc.Get("name").String(),
		Palette: palette,
		Grid:    grid,
	}

	if states := doc.Get("colorStates"); states.IsArray() {
		b.Aliases = legacyAliases(states)
	}

	for _, r := range doc.Get("rules").Array() {
		b.Rules = append(b.Rules, core.Rule{
			Match:  r.Get("match").String(),
			Become: r.Get("become").String(),
		})
	}

	if p := doc.Get("player"); p.IsObject() {
		pt := core.P(int(p.Get("x").Int()), int(p.Get("y").Int()))
		b.Player = &pt
	}

	return b, nil
}

func legacyGrid(rows gjson.Result, size int) (*core.Grid, error) {
	g, err := core.NewGrid(size, size, "")
	if err != nil {
		return nil, err
	}
	list := rows.Array()
	if len(list) != size {
		return nil, fmt.Errorf("expected %d rows, got %d", size, len(list))
	}

	for y, row := range list {
		var codes []string
		if row.IsArray() {
			for _, c := range row.Array() {
				codes = append(codes, c.String())
			}
		} else {
			for _, r := range row.String() {
				codes = append(codes, string(r))
			}
		}
		if len(codes) != size {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", y, size, len(codes))
		}
		for x, c := range codes {
			g.SetCellAt(core.P(x, y), core.ColorCode(c))
		}
	}
	return g, nil
}

// legacyPalette accepts the pair list or the {"color_to_code": ...} wrapper.
// Pairs are normally [code, color]; [color, code] is recognized by which
// side parses as a color.
func legacyPalette(v gjson.Result) (*core.Palette, error) {
	if inner := v.Get("color_to_code"); inner.Exists() {
		v = inner
	}

	p := core.NewPalette()
	if v.IsObject() {
		var err error
		v.ForEach(func(key, value gjson.Result) bool {
			err = addLegacyPair(p, key, value)
			return err == nil
		})
		return p, err
	}

	for i, pair := range v.Array() {
		items := pair.Array()
		if len(items) != 2 {
			return nil, fmt.Errorf("palette entry %d: expected a pair", i)
		}
		if err := addLegacyPair(p, items[0], items[1]); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func addLegacyPair(p *core.Palette, a, b gjson.Result) error {
	if c, err := legacyColor(b); err == nil && isLegacyCode(a) {
		p.SetCode(core.ColorCode(a.String()), c)
		return nil
	}
	if c, err := legacyColor(a); err == nil && isLegacyCode(b) {
		p.SetCode(core.ColorCode(b.String()), c)
		return nil
	}
	return fmt.Errorf("palette entry %s/%s: no color code and color pair", a.Raw, b.Raw)
}

func isLegacyCode(v gjson.Result) bool {
	return v.Type == gjson.String && utf8.RuneCountInString(v.String()) >= 1 &&
		!strings.HasPrefix(v.String(), "#") && core.CheckCode(core.ColorCode(v.String())) == nil
}

func legacyColor(v gjson.Result) (core.Color, error) {
	if v.IsArray() {
		parts := v.Array()
		if len(parts) < 3 {
			return core.Color{}, core.ErrInvalidColor
		}
		var rgb [3]uint8
		for i := range rgb {
			n := parts[i].Int()
			if n < 0 || n > 255 {
				return core.Color{}, core.ErrInvalidColor
			}
			rgb[i] = uint8(n)
		}
		return core.RGB(rgb[0], rgb[1], rgb[2]), nil
	}
	return core.ParseColor(v.String())
}

// legacyAliases turns [[code, isSolid]] into the blank and solid aliases.
func legacyAliases(states gjson.Result) *core.Aliases {
	a := core.NewAliases()
	for _, s := range states.Array() {
		pair := s.Array()
		if len(pair) != 2 {
			continue
		}
		name := core.BlankAlias
		if pair[1].Bool() {
			name = core.SolidAlias
		}
		a.Define(name, pair[0].String())
	}
	return a
}
