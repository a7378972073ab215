package editor

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
)

const sample = `id: sample
palette:
  - [A, "#ffffff"]
  - [B, "#000000"]
  - [C, "#ff0000"]
aliases:
  " ": [A]
  "#": [B, C]
  "x": ["#"]
rules:
  - {match: "> ", become: " >"}
  - {match: "># ", become: " >#"}
grid:
  size: {x: 4, y: 2}
  data: ["AABA", "CAAA"]
player: {x: 0, y: 0}
`

func sampleDesign(t *testing.T) *design.Design {
	t.Helper()
	d, err := design.Parse([]byte(sample), "sample.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func debugEditor() (*Editor, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	return New(logger), &buf
}

func TestSetColor(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, err := ed.SetColor(d, "B", core.RGB(0, 0, 255))
	if err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if c, _ := next.Palette.ColorFor("B"); c != core.RGB(0, 0, 255) {
		t.Errorf("B: expected #0000ff, got %s", c)
	}
	if c, _ := d.Palette.ColorFor("B"); c != core.RGB(0, 0, 0) {
		t.Errorf("input palette changed: B is %s", c)
	}

	next, err = ed.SetColor(d, "D", core.RGB(1, 2, 3))
	if err != nil || !next.Palette.Has("D") {
		t.Errorf("new code: expected D added, err=%v", err)
	}

	for _, code := range []core.ColorCode{"", ">", "?", ",", "A,B"} {
		if _, err := ed.SetColor(d, code, core.RGB(1, 2, 3)); !errors.Is(err, core.ErrUnknownCode) {
			t.Errorf("SetColor(%q): expected ErrUnknownCode, got %v", code, err)
		}
	}
}

func TestPaint(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, err := ed.Paint(d, core.P(5, -1), "C")
	if err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if got := next.Grid.CellAt(core.P(1, 1)); got != "C" {
		t.Errorf("wrapped paint: expected C at (1,1), got %q", got)
	}
	if d.Grid.CellAt(core.P(1, 1)) != "A" {
		t.Error("input grid changed")
	}
	if _, err := ed.Paint(d, core.P(0, 0), "Z"); !errors.Is(err, core.ErrUnknownCode) {
		t.Errorf("unknown code: expected ErrUnknownCode, got %v", err)
	}
}

func TestNewAlias(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, name := ed.NewAlias(d, "", "A", "C")
	if name != "a" {
		t.Errorf("auto name: expected a, got %q", name)
	}
	if got := next.Aliases.Members(name); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("members: expected [A C], got %v", got)
	}
	if d.Aliases.IsAlias("a") {
		t.Error("input aliases changed")
	}

	next, name = ed.NewAlias(d, "e")
	if !next.Aliases.IsAlias("e") || len(next.Aliases.Members(name)) != 0 {
		t.Errorf("empty alias: expected e with no members, got %v", next.Aliases.Members(name))
	}

	if next, _ := ed.NewAlias(d, "#"); Changed(d, next) {
		t.Error("existing name should be refused")
	}
	if next, _ := ed.NewAlias(d, ">"); Changed(d, next) {
		t.Error("player marker should be refused as alias name")
	}
}

func TestNewAliasSkipsPaletteCodes(t *testing.T) {
	ed := New(nil)
	d, err := ed.SetColor(sampleDesign(t), "a", core.RGB(9, 9, 9))
	if err != nil {
		t.Fatalf("SetColor: %v", err)
	}

	_, name := ed.NewAlias(d, "", "A")
	if name != "b" {
		t.Errorf("auto name: expected b, got %q", name)
	}
}

func TestAddAliasMemberRefusesCycles(t *testing.T) {
	ed, logs := debugEditor()
	d := sampleDesign(t)

	tests := []struct {
		alias core.AliasName
		item  string
		ok    bool
	}{
		{"#", "A", true},
		{"#", "#", false}, // itself
		{"#", "x", false}, // x contains #
		{"x", " ", true},
	}

	for _, tc := range tests {
		next := ed.AddAliasMember(d, tc.alias, tc.item, -1)
		if Changed(d, next) != tc.ok {
			t.Errorf("AddAliasMember(%q, %q): expected changed=%v", tc.alias, tc.item, tc.ok)
		}
	}
	if !strings.Contains(logs.String(), "would contain itself") {
		t.Errorf("refusal should be logged, got %q", logs.String())
	}
}

func TestAddAliasMemberAtIndex(t *testing.T) {
	ed := New(nil)
	next := ed.AddAliasMember(sampleDesign(t), "#", "A", 1)
	if got := next.Aliases.Members("#"); !reflect.DeepEqual(got, []string{"B", "A", "C"}) {
		t.Errorf("expected [B A C], got %v", got)
	}
}

func TestRemoveAliasMember(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next := ed.RemoveAliasMember(d, "#", 0)
	if got := next.Aliases.Members("#"); !reflect.DeepEqual(got, []string{"C"}) {
		t.Errorf("expected [C], got %v", got)
	}
	if Changed(d, ed.RemoveAliasMember(d, "#", 5)) {
		t.Error("out of range index should be a no-op")
	}
	if Changed(d, ed.RemoveAliasMember(d, "nope", 0)) {
		t.Error("unknown alias should be a no-op")
	}
}

func TestMoveAliasMemberNeverDuplicates(t *testing.T) {
	ed := New(nil)
	d := ed.AddAliasMember(sampleDesign(t), "#", "A", -1) // [B C A]

	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"C", "A", "B"}},
		{2, 0, []string{"A", "B", "C"}},
		{0, 1, []string{"C", "B", "A"}},
	}

	for _, tc := range tests {
		next := ed.MoveAliasMember(d, "#", tc.from, tc.to)
		if got := next.Aliases.Members("#"); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("move %d->%d: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}

	if Changed(d, ed.MoveAliasMember(d, "#", 1, 1)) {
		t.Error("same position should be a no-op")
	}
	if Changed(d, ed.MoveAliasMember(d, "#", 0, 3)) {
		t.Error("out of range target should be a no-op")
	}
}

func TestTransferAliasMember(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next := ed.TransferAliasMember(d, "#", 1, " ", -1)
	if got := next.Aliases.Members(" "); !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("destination: expected [A C], got %v", got)
	}
	if got := next.Aliases.Members("#"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("source: expected [B], got %v", got)
	}

	// x holds "#", which cannot go into "#"
	refused := ed.TransferAliasMember(d, "x", 0, "#", -1)
	if Changed(d, refused) {
		t.Error("transfer creating a cycle should be a no-op")
	}
}

func TestDeleteAlias(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	if next := ed.DeleteAlias(d, "x"); next.Aliases.IsAlias("x") {
		t.Error("x should be deleted")
	}
	if Changed(d, ed.DeleteAlias(d, "nope")) {
		t.Error("unknown alias should be a no-op")
	}
}

func TestRules(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, err := ed.AddRule(d, core.Rule{Match: "#> ", Become: " #>"}, 0)
	if err != nil {
		t.Fatalf("AddRule: %v", err)
	}
	if len(next.Rules) != 3 || next.Rules[0].Match != "#> " {
		t.Errorf("expected pull rule first, got %v", next.Rules)
	}
	if len(d.Rules) != 2 {
		t.Error("input rules changed")
	}

	if _, err := ed.AddRule(d, core.Rule{Match: " ", Become: " "}, -1); !errors.Is(err, core.ErrMissingPlayerMarker) {
		t.Errorf("rule without marker: expected ErrMissingPlayerMarker, got %v", err)
	}
	if _, err := ed.AddRule(d, core.Rule{Match: ">>", Become: "  "}, -1); !errors.Is(err, core.ErrMultiplePlayerMarkers) {
		t.Errorf("rule with two markers: expected ErrMultiplePlayerMarkers, got %v", err)
	}

	removed := ed.RemoveRule(next, 0)
	if !reflect.DeepEqual(removed.Rules, d.Rules) {
		t.Errorf("RemoveRule: expected %v, got %v", d.Rules, removed.Rules)
	}
	if Changed(d, ed.RemoveRule(d, 7)) {
		t.Error("out of range rule should be a no-op")
	}

	moved := ed.MoveRule(d, 1, 0)
	if moved.Rules[0].Match != "># " || moved.Rules[1].Match != "> " {
		t.Errorf("MoveRule: got %v", moved.Rules)
	}
}

func TestRuleSymbols(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, err := ed.InsertRuleSymbol(d, 1, Match, 2, "#")
	if err != nil {
		t.Fatalf("InsertRuleSymbol: %v", err)
	}
	if got := next.Rules[1].Match; got != ">## " {
		t.Errorf("match: expected %q, got %q", ">## ", got)
	}

	next, err = ed.InsertRuleSymbol(d, 0, Become, -1, "?")
	if err != nil || next.Rules[0].Become != " >?" {
		t.Errorf("append: expected %q, got %q (err=%v)", " >?", next.Rules[0].Become, err)
	}

	if _, err := ed.InsertRuleSymbol(d, 0, Match, 0, ">"); !errors.Is(err, core.ErrMultiplePlayerMarkers) {
		t.Errorf("second marker: expected ErrMultiplePlayerMarkers, got %v", err)
	}
	if _, err := ed.InsertRuleSymbol(d, 0, Match, 0, "ab"); !errors.Is(err, core.ErrUnknownSymbol) {
		t.Errorf("multi-character symbol: expected ErrUnknownSymbol, got %v", err)
	}

	if _, err := ed.RemoveRuleSymbol(d, 0, Match, 0); !errors.Is(err, core.ErrMissingPlayerMarker) {
		t.Errorf("removing marker: expected ErrMissingPlayerMarker, got %v", err)
	}
	next, err = ed.RemoveRuleSymbol(d, 1, Become, 0)
	if err != nil || next.Rules[1].Become != ">#" {
		t.Errorf("RemoveRuleSymbol: expected %q, got %q (err=%v)", ">#", next.Rules[1].Become, err)
	}

	moved := ed.MoveRuleSymbol(d, 1, Match, 0, 2)
	if got := moved.Rules[1].Match; got != "# >" {
		t.Errorf("MoveRuleSymbol: expected %q, got %q", "# >", got)
	}
	if len(moved.Rules[1].Match) != len(d.Rules[1].Match) {
		t.Error("moving a symbol should not change the side's length")
	}
	if Changed(d, ed.MoveRuleSymbol(d, 9, Match, 0, 1)) {
		t.Error("unknown rule should be a no-op")
	}
}

func TestSpawn(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next := ed.SetSpawn(d, &core.Point{X: -1, Y: 3})
	if next.Player == nil || *next.Player != core.P(3, 1) {
		t.Errorf("wrapped spawn: expected (3,1), got %v", next.Player)
	}
	if *d.Player != core.P(0, 0) {
		t.Error("input spawn changed")
	}

	if cleared := ed.SetSpawn(d, nil); cleared.Player != nil {
		t.Errorf("nil spawn: expected none, got %v", cleared.Player)
	}
	if Changed(d, ed.SetSpawn(d, &core.Point{X: 4, Y: 2})) {
		t.Error("same spawn after wrapping should be a no-op")
	}
}

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

func TestRandomSpawn(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	// empty cells in row-major order: (0,0) (1,0) (3,0) (1,1) (2,1) (3,1)
	next := ed.RandomSpawn(d, fixedRand(3))
	if next.Player == nil || *next.Player != core.P(1, 1) {
		t.Errorf("expected spawn at (1,1), got %v", next.Player)
	}
}

func TestSetRulesJSON(t *testing.T) {
	ed := New(nil)
	d := sampleDesign(t)

	next, err := ed.SetRulesJSON(d, []byte(`[{"match": "?> ", "become": "? >"}]`))
	if err != nil {
		t.Fatalf("SetRulesJSON: %v", err)
	}
	if len(next.Rules) != 1 || next.Rules[0].Become != "? >" {
		t.Errorf("rules: got %v", next.Rules)
	}

	if _, err := ed.SetRulesJSON(d, []byte(`[{"match": "  "`)); err == nil {
		t.Error("malformed JSON should fail")
	}
	if _, err := ed.SetRulesJSON(d, []byte(`[{"match": "  ", "become": "  "}]`)); !errors.Is(err, core.ErrMissingPlayerMarker) {
		t.Errorf("invalid rule: expected ErrMissingPlayerMarker, got %v", err)
	}

	text, err := RulesJSON(d)
	if err != nil {
		t.Fatalf("RulesJSON: %v", err)
	}
	round, err := ParseRules(text)
	if err != nil || !reflect.DeepEqual(round, d.Rules) {
		t.Errorf("RulesJSON text should parse back to the same rules, got %v (err=%v)", round, err)
	}
}
