// Package formats provides the design file formats: the canonical JSON
// bundle, the YAML bundle used for built-in designs, and import of legacy
// JSON schemas.
package formats

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/gamify/internal/core"
)

// Bundle is a parsed design file. Aliases may be nil when the source did
// not carry any; callers derive them from the grid in that case.
type Bundle struct {
	ID       string
	Name     string
	Palette  *core.Palette
	Aliases  *core.Aliases
	Rules    []core.Rule
	Grid     *core.Grid
	Player   *core.Point
	Metadata map[string]string
}

// Format identifies a design file schema.
type Format int

const (
	FormatUnknown Format = iota
	FormatCanonical
	FormatYAML
	FormatLegacy
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatCanonical:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// Parse routes data to the parser for ext. JSON files are sniffed so that
// legacy exports load through the same path.
func Parse(data []byte, ext string) (Bundle, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".json":
		switch DetectFormat(data) {
		case FormatCanonical:
			return DecodeJSON(data)
		case FormatLegacy:
			return DecodeLegacy(data)
		default:
			return Bundle{}, fmt.Errorf("unrecognized JSON design schema")
		}
	default:
		return Bundle{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// check reports the fields every bundle needs.
func (b Bundle) check() error {
	if b.Grid == nil {
		return fmt.Errorf("missing grid")
	}
	if b.Palette == nil {
		return fmt.Errorf("missing palette")
	}
	return nil
}
