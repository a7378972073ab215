package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a concrete 24-bit RGB color. It is an immutable value type.
type Color struct {
	R, G, B uint8
}

// RGB is a convenience constructor for Color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseColor accepts "#rrggbb" (or "#rgb") and the legacy "r,g,b" form.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, newError(CodeInvalidColor, "invalid color format: %q", s)
		}
		r, g, b := c.RGB255()
		return Color{R: r, G: g, B: b}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Color{}, newError(CodeInvalidColor, "invalid color format: %q", s)
	}
	var rgb [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return Color{}, newError(CodeInvalidColor, "invalid color component %q in %q", part, s)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// MustParseColor is like ParseColor but panics on error. Intended for
// constants and tests.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Manhattan returns the sum of absolute channel differences.
func (c Color) Manhattan(other Color) int {
	return Abs(int(c.R)-int(other.R)) +
		Abs(int(c.G)-int(other.G)) +
		Abs(int(c.B)-int(other.B))
}

// Similar reports whether two colors are closer than threshold.
func (c Color) Similar(other Color, threshold int) bool {
	return c.Manhattan(other) < threshold
}

// Brightness returns perceived brightness in [0, 255].
func (c Color) Brightness() float64 {
	return (float64(c.R)*299 + float64(c.G)*587 + float64(c.B)*114) / 1000
}

// Foreground returns black or white, whichever contrasts with c.
func (c Color) Foreground() Color {
	if c.Brightness() > 128 {
		return Color{}
	}
	return Color{R: 255, G: 255, B: 255}
}

// MarshalText encodes the color as "#rrggbb".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes any form accepted by ParseColor.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return fmt.Errorf("color: %w", err)
	}
	*c = parsed
	return nil
}
