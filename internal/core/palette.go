package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ColorCode is the short symbol stored in grid cells. It indexes a Palette
// entry and is never interpreted by its shape.
type ColorCode string

// FirstColorCode is where code allocation starts.
const FirstColorCode ColorCode = "A"

// PaletteEntry is one code→color binding.
type PaletteEntry struct {
	Code  ColorCode
	Color Color
}

// Palette owns the ColorCode ↔ Color mapping.
// The zero value is not usable; call NewPalette.
type Palette struct {
	order   []ColorCode
	byCode  map[ColorCode]Color
	byColor map[Color]ColorCode
	next    ColorCode

	// Threshold enables coalescing in CodeFor: a color whose Manhattan
	// distance to a registered color is below Threshold reuses that code.
	// Zero means exact matches only.
	Threshold int
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{
		byCode:  make(map[ColorCode]Color),
		byColor: make(map[Color]ColorCode),
		next:    FirstColorCode,
	}
}

// CodeFor returns the code registered for color, allocating a new one if
// needed. It never fails.
func (p *Palette) CodeFor(color Color) ColorCode {
	if code, ok := p.byColor[color]; ok {
		return code
	}
	if p.Threshold > 0 {
		for _, code := range p.order {
			if p.byCode[code].Similar(color, p.Threshold) {
				return code
			}
		}
	}

	code := p.next
	for p.unavailable(code) {
		code = nextColorCode(code)
	}
	p.bind(code, color)
	p.next = nextColorCode(code)
	return code
}

// unavailable reports whether code cannot be handed out by CodeFor.
func (p *Palette) unavailable(code ColorCode) bool {
	if _, taken := p.byCode[code]; taken {
		return true
	}
	if CheckCode(code) != nil {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(string(code))
	return !unicode.IsGraphic(r) || unicode.IsSpace(r)
}

// CheckCode reports whether code may be bound in a palette. Codes are
// non-empty, are not rule symbols and never hold the grid row delimiter.
func CheckCode(code ColorCode) error {
	switch {
	case code == "":
		return newError(CodeUnknownCode, "empty color code")
	case IsReservedSymbol(string(code)):
		return newError(CodeUnknownCode, "%q is a rule symbol and cannot be a color code", code)
	case strings.Contains(string(code), GridDelimiter):
		return newError(CodeUnknownCode, "color code %q contains the row delimiter %q", code, GridDelimiter)
	}
	return nil
}

// ColorFor returns the color bound to code.
// An unknown code means grid and palette are out of sync.
func (p *Palette) ColorFor(code ColorCode) (Color, error) {
	c, ok := p.byCode[code]
	if !ok {
		return Color{}, newError(CodeUnknownCode, "color code %q not found in palette", code)
	}
	return c, nil
}

// Has reports whether code is registered.
func (p *Palette) Has(code ColorCode) bool {
	_, ok := p.byCode[code]
	return ok
}

// SetCode binds code to color, replacing any previous binding of code.
// The allocation cursor is moved past code when it would otherwise collide.
func (p *Palette) SetCode(code ColorCode, color Color) {
	p.bind(code, color)
	if p.next <= code {
		p.next = nextColorCode(code)
	}
}

func (p *Palette) bind(code ColorCode, color Color) {
	if old, ok := p.byCode[code]; ok {
		if p.byColor[old] == code {
			delete(p.byColor, old)
			for _, other := range p.order {
				if other != code && p.byCode[other] == old {
					p.byColor[old] = other
					break
				}
			}
		}
	} else {
		p.order = append(p.order, code)
	}
	p.byCode[code] = color
	p.byColor[color] = code
}

// Len returns the number of registered codes.
func (p *Palette) Len() int {
	return len(p.order)
}

// Codes returns all registered codes in registration order.
func (p *Palette) Codes() []ColorCode {
	out := make([]ColorCode, len(p.order))
	copy(out, p.order)
	return out
}

// Entries returns all bindings in registration order.
func (p *Palette) Entries() []PaletteEntry {
	out := make([]PaletteEntry, 0, len(p.order))
	for _, code := range p.order {
		out = append(out, PaletteEntry{Code: code, Color: p.byCode[code]})
	}
	return out
}

// Clone returns an independent copy.
func (p *Palette) Clone() *Palette {
	c := NewPalette()
	c.Threshold = p.Threshold
	for _, code := range p.order {
		c.bind(code, p.byCode[code])
	}
	c.byColor = make(map[Color]ColorCode, len(p.byColor))
	for color, code := range p.byColor {
		c.byColor[color] = code
	}
	c.next = p.next
	return c
}

// Equal reports whether both palettes hold the same bindings in the same order.
func (p *Palette) Equal(other *Palette) bool {
	if len(p.order) != len(other.order) {
		return false
	}
	for i, code := range p.order {
		if other.order[i] != code || other.byCode[code] != p.byCode[code] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the palette as an ordered list of [code, "#rrggbb"] pairs.
func (p *Palette) MarshalJSON() ([]byte, error) {
	pairs := make([][2]string, 0, len(p.order))
	for _, code := range p.order {
		pairs = append(pairs, [2]string{string(code), p.byCode[code].Hex()})
	}
	return json.Marshal(pairs)
}

// UnmarshalJSON decodes a list of [code, color] pairs. Colors may use any
// form accepted by ParseColor.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var pairs [][2]string
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("palette: %w", err)
	}
	loaded, err := PaletteFromPairs(pairs)
	if err != nil {
		return err
	}
	*p = *loaded
	return nil
}

// PaletteFromPairs builds a palette from [code, color] pairs, in order.
func PaletteFromPairs(pairs [][2]string) (*Palette, error) {
	p := NewPalette()
	for _, pair := range pairs {
		if err := CheckCode(ColorCode(pair[0])); err != nil {
			return nil, fmt.Errorf("palette: %w", err)
		}
		color, err := ParseColor(pair[1])
		if err != nil {
			return nil, fmt.Errorf("palette: code %q: %w", pair[0], err)
		}
		p.SetCode(ColorCode(pair[0]), color)
	}
	return p, nil
}

// nextColorCode increments the last rune of code.
func nextColorCode(code ColorCode) ColorCode {
	s := string(code)
	if s == "" {
		return FirstColorCode
	}
	r, size := utf8.DecodeLastRuneInString(s)
	next := r + 1
	if next == utf8.RuneError || (next >= 0xD800 && next <= 0xDFFF) {
		next = 0xE000
	}
	return ColorCode(s[:len(s)-size] + string(next))
}
