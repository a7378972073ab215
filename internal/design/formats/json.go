package formats

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/gamify/internal/core"
)

// jsonBundle is the canonical persisted shape. Field order is the key order
// of the encoded object.
type jsonBundle struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name,omitempty"`
	Palette  *core.Palette     `json:"palette"`
	Aliases  *core.Aliases     `json:"aliases"`
	Rules    []core.Rule       `json:"rules"`
	Grid     *core.Grid        `json:"grid"`
	Player   *core.Point       `json:"player"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// EncodeJSON writes b in the canonical bundle format.
func EncodeJSON(b Bundle) ([]byte, error) {
	if err := b.check(); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	aliases := b.Aliases
	if aliases == nil {
		aliases = core.NewAliases()
	}
	rules := b.Rules
	if rules == nil {
		rules = []core.Rule{}
	}

	data, err := json.Marshal(jsonBundle{
		ID:       b.ID,
		Name:     b.Name,
		Palette:  b.Palette,
		Aliases:  aliases,
		Rules:    rules,
		Grid:     b.Grid,
		Player:   b.Player,
		Metadata: b.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	return data, nil
}

// DecodeJSON reads a canonical bundle.
func DecodeJSON(data []byte) (Bundle, error) {
	var jb jsonBundle
	if err := json.Unmarshal(data, &jb); err != nil {
		return Bundle{}, fmt.Errorf("json unmarshal: %w", err)
	}

	b := Bundle{
		ID:       jb.ID,
		Name:     jb.Name,
		Palette:  jb.Palette,
		Aliases:  jb.Aliases,
		Rules:    jb.Rules,
		Grid:     jb.Grid,
		Player:   jb.Player,
		Metadata: jb.Metadata,
	}
	if err := b.check(); err != nil {
		return Bundle{}, fmt.Errorf("json decode: %w", err)
	}
	return b, nil
}
