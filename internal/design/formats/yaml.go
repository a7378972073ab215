package formats

import (
	"fmt"

	"github.com/vovakirdan/gamify/internal/core"
	"gopkg.in/yaml.v3"
)

// YAMLBundle represents the YAML structure for a design file.
type YAMLBundle struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Palette  [][]string        `yaml:"palette"`
	Aliases  yaml.Node         `yaml:"aliases"` // mapping; key order is alias order
	Rules    []core.Rule       `yaml:"rules"`
	Grid     YAMLGrid          `yaml:"grid"`
	Player   *core.Point       `yaml:"player"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// YAMLGrid represents the grid block.
type YAMLGrid struct {
	Size      core.Point `yaml:"size"`
	Data      []string   `yaml:"data"`
	Delimiter string     `yaml:"delimiter,omitempty"`
}

// DecodeYAML parses a YAML design file.
func DecodeYAML(data []byte) (Bundle, error) {
	var yb YAMLBundle
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return Bundle{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	pairs := make([][2]string, 0, len(yb.Palette))
	for i, p := range yb.Palette {
		if len(p) != 2 {
			return Bundle{}, fmt.Errorf("palette entry %d: expected [code, color], got %d items", i, len(p))
		}
		pairs = append(pairs, [2]string{p[0], p[1]})
	}
	palette, err := core.PaletteFromPairs(pairs)
	if err != nil {
		return Bundle{}, err
	}

	aliases, err := decodeAliasNode(&yb.Aliases)
	if err != nil {
		return Bundle{}, err
	}

	grid, err := core.GridFromRows(yb.Grid.Size.X, yb.Grid.Size.Y, yb.Grid.Data, yb.Grid.Delimiter)
	if err != nil {
		return Bundle{}, fmt.Errorf("grid: %w", err)
	}

	return Bundle{
		ID:       yb.ID,
		Name:     yb.Name,
		Palette:  palette,
		Aliases:  aliases,
		Rules:    yb.Rules,
		Grid:     grid,
		Player:   yb.Player,
		Metadata: yb.Metadata,
	}, nil
}

// EncodeYAML writes b as a YAML design file.
func EncodeYAML(b Bundle) ([]byte, error) {
	if err := b.check(); err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}

	yb := YAMLBundle{
		ID:       b.ID,
		Name:     b.Name,
		Rules:    b.Rules,
		Player:   b.Player,
		Metadata: b.Metadata,
		Grid: YAMLGrid{
			Size:      b.Grid.Size(),
			Delimiter: b.Grid.RowDelimiter(),
		},
	}
	yb.Grid.Data = b.Grid.Rows(yb.Grid.Delimiter)
	for _, e := range b.Palette.Entries() {
		yb.Palette = append(yb.Palette, []string{string(e.Code), e.Color.Hex()})
	}
	yb.Aliases = encodeAliasNode(b.Aliases)

	data, err := yaml.Marshal(&yb)
	if err != nil {
		return nil, fmt.Errorf("yaml encode: %w", err)
	}
	return data, nil
}

// decodeAliasNode reads an alias mapping, keeping key order. An absent
// block yields nil.
func decodeAliasNode(n *yaml.Node) (*core.Aliases, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("aliases: line %d: expected mapping", n.Line)
	}

	var entries []core.AliasEntry
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		var members []string
		if err := val.Decode(&members); err != nil {
			return nil, fmt.Errorf("aliases: alias %q: %w", key.Value, err)
		}
		entries = append(entries, core.AliasEntry{Name: core.AliasName(key.Value), Members: members})
	}
	return core.AliasesFromEntries(entries), nil
}

func encodeAliasNode(a *core.Aliases) yaml.Node {
	n := yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if a == nil {
		return n
	}
	for _, e := range a.Entries() {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(e.Name), Style: yaml.DoubleQuotedStyle}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, m := range e.Members {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m, Style: yaml.DoubleQuotedStyle})
		}
		n.Content = append(n.Content, key, seq)
	}
	return n
}
