package core

import (
	"fmt"
	"strings"
)

// Rule symbols with fixed meaning.
const (
	PlayerMarker = ">"
	Wildcard     = "?"
)

// IsReservedSymbol reports whether s has a fixed meaning in rules and so
// can never be allocated as a color code.
func IsReservedSymbol(s string) bool {
	return s == PlayerMarker || s == Wildcard
}

// Rule is a local rewrite along the player's line of movement. Match is laid
// out so that its player marker sits on the player; Become is written from
// the same starting cell. Each rune is one symbol.
type Rule struct {
	Match  string `json:"match" yaml:"match"`
	Become string `json:"become" yaml:"become"`
}

// String returns "match -> become" with visible quoting of blanks.
func (r Rule) String() string {
	return fmt.Sprintf("%q -> %q", r.Match, r.Become)
}

// Symbols splits a rule side into its symbols.
func Symbols(side string) []string {
	out := make([]string, 0, len(side))
	for _, r := range side {
		out = append(out, string(r))
	}
	return out
}

// PlayerOffset returns the symbol index of the player marker in Match.
func (r Rule) PlayerOffset() (int, error) {
	for i, s := range Symbols(r.Match) {
		if s == PlayerMarker {
			return i, nil
		}
	}
	return -1, newError(CodeMissingPlayerMarker, "invalid rule %s: match has no %q", r, PlayerMarker)
}

// Validate checks that Match holds exactly one player marker.
func (r Rule) Validate() error {
	if _, err := r.PlayerOffset(); err != nil {
		return err
	}
	if n := strings.Count(r.Match, PlayerMarker); n > 1 {
		return newError(CodeMultiplePlayerMarkers, "invalid rule %s: match has %d %q markers", r, n, PlayerMarker)
	}
	return nil
}

// ValidateRules validates every rule, reporting the first failure with its
// position in the list.
func ValidateRules(rules []Rule) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

// CloneRules returns a copy of the rule list.
func CloneRules(rules []Rule) []Rule {
	if rules == nil {
		return nil
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
