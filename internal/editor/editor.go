// Package editor provides the authoring operations on a design. Every
// operation leaves its input untouched and returns a new design; when an
// operation is refused (an index out of range, a member that would make an
// alias contain itself) the input design itself is returned and the refusal
// is logged at debug level.
package editor

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
)

// Side selects one half of a rule.
type Side int

const (
	Match Side = iota
	Become
)

// String returns the JSON key of the side.
func (s Side) String() string {
	if s == Become {
		return "become"
	}
	return "match"
}

// Editor applies edit operations to designs.
type Editor struct {
	log *log.Logger
}

// New creates an editor that reports refused operations to logger.
// A nil logger discards them.
func New(logger *log.Logger) *Editor {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Editor{log: logger}
}

// unchanged logs a refused operation and returns d as is.
func (e *Editor) unchanged(d *design.Design, op, reason string, keyvals ...any) *design.Design {
	e.log.Debug(op+": no change", append([]any{"design", d.ID, "reason", reason}, keyvals...)...)
	return d
}

// Changed reports whether an operation produced a new design.
func Changed(before, after *design.Design) bool {
	return before != after
}

// SetColor binds code to color, adding code to the palette when it is new.
// Codes must pass core.CheckCode.
func (e *Editor) SetColor(d *design.Design, code core.ColorCode, color core.Color) (*design.Design, error) {
	if err := core.CheckCode(code); err != nil {
		return d, err
	}
	if c, err := d.Palette.ColorFor(code); err == nil && c == color {
		return e.unchanged(d, "set color", "same color", "code", code), nil
	}
	next := d.Clone()
	next.Palette.SetCode(code, color)
	return next, nil
}

// Paint sets the original grid cell at p to code. p wraps onto the grid.
func (e *Editor) Paint(d *design.Design, p core.Point, code core.ColorCode) (*design.Design, error) {
	if !d.Palette.Has(code) {
		return d, core.NewError(core.CodeUnknownCode, "color code %q not found in palette", code)
	}
	p = d.Grid.Wrap(p)
	if d.Grid.CellAt(p) == code {
		return e.unchanged(d, "paint", "same code", "at", p), nil
	}
	next := d.Clone()
	next.Grid.SetCellAt(p, code)
	return next, nil
}

// NewAlias creates an alias holding members. An empty name picks the next
// automatic name that is not a palette code. Members that would create a
// cycle are skipped.
func (e *Editor) NewAlias(d *design.Design, name core.AliasName, members ...string) (*design.Design, core.AliasName) {
	if name != "" && (d.Aliases.IsAlias(string(name)) || core.IsReservedSymbol(string(name))) {
		return e.unchanged(d, "new alias", "name in use", "alias", name), name
	}
	next := d.Clone()
	if name == "" {
		name = next.Aliases.NextName(next.Palette)
	}
	next.Aliases.Create(name)
	for _, m := range members {
		if !next.Aliases.AddMember(name, m, -1) {
			e.log.Debug("new alias: member skipped", "design", d.ID, "alias", name, "member", m)
		}
	}
	return next, name
}

// DeleteAlias removes alias name.
func (e *Editor) DeleteAlias(d *design.Design, name core.AliasName) *design.Design {
	if !d.Aliases.IsAlias(string(name)) {
		return e.unchanged(d, "delete alias", "no such alias", "alias", name)
	}
	next := d.Clone()
	next.Aliases.Delete(name)
	return next
}

// AddAliasMember inserts item into alias at index; an index out of range
// appends. Adding an alias to itself or to one of its own members is refused.
func (e *Editor) AddAliasMember(d *design.Design, alias core.AliasName, item string, index int) *design.Design {
	next := d.Clone()
	if !next.Aliases.AddMember(alias, item, index) {
		return e.unchanged(d, "add alias member", "would contain itself", "alias", alias, "member", item)
	}
	return next
}

// RemoveAliasMember removes the member of alias at index.
func (e *Editor) RemoveAliasMember(d *design.Design, alias core.AliasName, index int) *design.Design {
	next := d.Clone()
	if _, ok := next.Aliases.RemoveMember(alias, index); !ok {
		return e.unchanged(d, "remove alias member", "no such member", "alias", alias, "index", index)
	}
	return next
}

// MoveAliasMember moves the member of alias at from so that it ends up at
// index to. The member list is reordered, never grown.
func (e *Editor) MoveAliasMember(d *design.Design, alias core.AliasName, from, to int) *design.Design {
	n := len(d.Aliases.Members(alias))
	if from < 0 || from >= n || to < 0 || to >= n {
		return e.unchanged(d, "move alias member", "index out of range", "alias", alias, "from", from, "to", to)
	}
	if from == to {
		return e.unchanged(d, "move alias member", "same position", "alias", alias, "index", from)
	}
	next := d.Clone()
	item, _ := next.Aliases.RemoveMember(alias, from)
	next.Aliases.AddMember(alias, item, to)
	return next
}

// TransferAliasMember moves the member of src at index into dst at
// dstIndex. If dst refuses the member both aliases keep their members.
func (e *Editor) TransferAliasMember(d *design.Design, src core.AliasName, index int, dst core.AliasName, dstIndex int) *design.Design {
	if src == dst {
		return e.MoveAliasMember(d, src, index, dstIndex)
	}
	next := d.Clone()
	item, ok := next.Aliases.RemoveMember(src, index)
	if !ok {
		return e.unchanged(d, "transfer alias member", "no such member", "alias", src, "index", index)
	}
	if !next.Aliases.AddMember(dst, item, dstIndex) {
		return e.unchanged(d, "transfer alias member", "would contain itself", "alias", dst, "member", item)
	}
	return next
}

// AddRule inserts rule at index; an index out of range appends.
// The rule's match side must hold exactly one player marker.
func (e *Editor) AddRule(d *design.Design, rule core.Rule, index int) (*design.Design, error) {
	if err := rule.Validate(); err != nil {
		return d, err
	}
	next := d.Clone()
	if index < 0 || index >= len(next.Rules) {
		next.Rules = append(next.Rules, rule)
		return next, nil
	}
	next.Rules = append(next.Rules, core.Rule{})
	copy(next.Rules[index+1:], next.Rules[index:])
	next.Rules[index] = rule
	return next, nil
}

// RemoveRule removes the rule at index.
func (e *Editor) RemoveRule(d *design.Design, index int) *design.Design {
	if index < 0 || index >= len(d.Rules) {
		return e.unchanged(d, "remove rule", "index out of range", "index", index)
	}
	next := d.Clone()
	next.Rules = append(next.Rules[:index:index], next.Rules[index+1:]...)
	return next
}

// MoveRule moves the rule at from to index to. Rule order is match
// priority.
func (e *Editor) MoveRule(d *design.Design, from, to int) *design.Design {
	n := len(d.Rules)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return e.unchanged(d, "move rule", "nothing to move", "from", from, "to", to)
	}
	next := d.Clone()
	next.Rules = reorder(next.Rules, from, to)
	return next
}

// InsertRuleSymbol inserts symbol into one side of rule ruleIndex at
// position pos; a position out of range appends. The result must still be
// a valid rule.
func (e *Editor) InsertRuleSymbol(d *design.Design, ruleIndex int, side Side, pos int, symbol string) (*design.Design, error) {
	if ruleIndex < 0 || ruleIndex >= len(d.Rules) {
		return e.unchanged(d, "insert rule symbol", "no such rule", "rule", ruleIndex), nil
	}
	if len(core.Symbols(symbol)) != 1 {
		return d, core.NewError(core.CodeUnknownSymbol, "rule symbol must be a single character, got %q", symbol)
	}

	syms := core.Symbols(sideOf(d.Rules[ruleIndex], side))
	if pos < 0 || pos >= len(syms) {
		syms = append(syms, symbol)
	} else {
		syms = append(syms, "")
		copy(syms[pos+1:], syms[pos:])
		syms[pos] = symbol
	}
	return e.replaceSide(d, ruleIndex, side, syms)
}

// RemoveRuleSymbol removes the symbol at pos from one side of rule
// ruleIndex. Removing the player marker from the match side is an error.
func (e *Editor) RemoveRuleSymbol(d *design.Design, ruleIndex int, side Side, pos int) (*design.Design, error) {
	if ruleIndex < 0 || ruleIndex >= len(d.Rules) {
		return e.unchanged(d, "remove rule symbol", "no such rule", "rule", ruleIndex), nil
	}
	syms := core.Symbols(sideOf(d.Rules[ruleIndex], side))
	if pos < 0 || pos >= len(syms) {
		return e.unchanged(d, "remove rule symbol", "index out of range", "rule", ruleIndex, "side", side, "index", pos), nil
	}
	syms = append(syms[:pos:pos], syms[pos+1:]...)
	return e.replaceSide(d, ruleIndex, side, syms)
}

// MoveRuleSymbol moves the symbol at from to position to within one side
// of rule ruleIndex. The side is reordered, never grown.
func (e *Editor) MoveRuleSymbol(d *design.Design, ruleIndex int, side Side, from, to int) *design.Design {
	if ruleIndex < 0 || ruleIndex >= len(d.Rules) {
		return e.unchanged(d, "move rule symbol", "no such rule", "rule", ruleIndex)
	}
	syms := core.Symbols(sideOf(d.Rules[ruleIndex], side))
	n := len(syms)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return e.unchanged(d, "move rule symbol", "nothing to move", "rule", ruleIndex, "side", side, "from", from, "to", to)
	}
	next, _ := e.replaceSide(d, ruleIndex, side, reorder(syms, from, to))
	return next
}

func (e *Editor) replaceSide(d *design.Design, ruleIndex int, side Side, syms []string) (*design.Design, error) {
	rule := d.Rules[ruleIndex]
	joined := strings.Join(syms, "")
	if side == Become {
		rule.Become = joined
	} else {
		rule.Match = joined
	}
	if err := rule.Validate(); err != nil {
		return d, fmt.Errorf("rule %d: %w", ruleIndex, err)
	}
	next := d.Clone()
	next.Rules[ruleIndex] = rule
	return next, nil
}

func sideOf(r core.Rule, side Side) string {
	if side == Become {
		return r.Become
	}
	return r.Match
}

// reorder returns items with the element at from relocated to to.
func reorder[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	item := items[from]
	for i, it := range items {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, item)
		}
		out = append(out, it)
	}
	if len(out) < len(items) {
		out = append(out, item)
	}
	return out
}

// SetSpawn sets the spawn point, wrapped onto the grid. A nil point removes
// the spawn.
func (e *Editor) SetSpawn(d *design.Design, p *core.Point) *design.Design {
	var spawn *core.Point
	if p != nil {
		w := d.Grid.Wrap(*p)
		spawn = &w
	}
	if (spawn == nil && d.Player == nil) || (spawn != nil && d.Player != nil && *spawn == *d.Player) {
		return e.unchanged(d, "set spawn", "same spawn", "at", p)
	}
	next := d.Clone()
	next.Player = spawn
	return next
}

// RandomSpawn moves the spawn to a uniformly random empty cell, or removes
// it when the grid has no empty cell.
func (e *Editor) RandomSpawn(d *design.Design, rng core.Rand) *design.Design {
	return e.SetSpawn(d, design.FindRandomEmpty(d.Grid, d.Aliases, rng))
}

// ParseRules decodes a JSON rule list as written in design files.
func ParseRules(data []byte) ([]core.Rule, error) {
	var rules []core.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("editor: parse rules: %w", err)
	}
	if err := core.ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("editor: parse rules: %w", err)
	}
	return rules, nil
}

// SetRulesJSON replaces the whole rule list with the JSON text in data.
func (e *Editor) SetRulesJSON(d *design.Design, data []byte) (*design.Design, error) {
	rules, err := ParseRules(data)
	if err != nil {
		return d, err
	}
	next := d.Clone()
	next.Rules = rules
	return next, nil
}

// RulesJSON returns the rule list as indented JSON, the text SetRulesJSON
// accepts.
func RulesJSON(d *design.Design) ([]byte, error) {
	rules := d.Rules
	if rules == nil {
		rules = []core.Rule{}
	}
	return json.MarshalIndent(rules, "", "  ")
}
