package design

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/gamify/internal/core"
)

var (
	white = core.RGB(255, 255, 255)
	snow  = core.RGB(250, 250, 240)
	black = core.RGB(0, 0, 0)
	red   = core.RGB(200, 0, 0)
)

func testDesign(t *testing.T) *Design {
	t.Helper()
	d, err := FromPixels("box", [][]core.Color{
		{white, white, white, white},
		{white, black, snow, white},
		{white, white, red, white},
	}, DefaultSimilarity, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	return d
}

func TestFromPixels(t *testing.T) {
	d := testDesign(t)

	if d.Grid.Rows("")[1] != "ABCA" {
		t.Errorf("codes should be allocated in scan order, got %v", d.Grid.Rows(""))
	}
	if got := d.Aliases.Expand(core.BlankAlias); !reflect.DeepEqual(got, []core.ColorCode{"A", "C"}) {
		t.Errorf("blank alias: expected [A C], got %v", got)
	}
	if got := d.Aliases.Expand(core.SolidAlias); !reflect.DeepEqual(got, []core.ColorCode{"B", "D"}) {
		t.Errorf("solid alias: expected [B D], got %v", got)
	}
	if !reflect.DeepEqual(d.Rules, DefaultRules()) {
		t.Errorf("rules: expected defaults, got %v", d.Rules)
	}
	if d.Player == nil || !d.Grid.IsEmpty(d.Aliases, *d.Player) {
		t.Errorf("spawn should be an empty cell, got %v", d.Player)
	}
	if err := Validate(d); err != nil {
		t.Errorf("fresh design should validate: %v", err)
	}
}

func TestFromPixelsErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := FromPixels("x", nil, DefaultSimilarity, rng); !errors.Is(err, core.ErrGridSize) {
		t.Errorf("empty raster: expected ErrGridSize, got %v", err)
	}
	ragged := [][]core.Color{{white, white}, {white}}
	if _, err := FromPixels("x", ragged, DefaultSimilarity, rng); !errors.Is(err, core.ErrGridSize) {
		t.Errorf("ragged raster: expected ErrGridSize, got %v", err)
	}
}

func TestDominantCodeTieGoesToLater(t *testing.T) {
	g, err := core.GridFromRows(4, 1, []string{"ABBA"}, "")
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	if got := DominantCode(g); got != "B" {
		t.Errorf("DominantCode: expected B, got %q", got)
	}
}

func TestFindRandomEmpty(t *testing.T) {
	g, _ := core.GridFromRows(3, 1, []string{"BAB"}, "")
	a := core.NewAliases()
	a.Define(core.BlankAlias, "A")

	p := FindRandomEmpty(g, a, rand.New(rand.NewSource(3)))
	if p == nil || *p != core.P(1, 0) {
		t.Errorf("expected the only empty cell (1,0), got %v", p)
	}

	full, _ := core.GridFromRows(2, 1, []string{"BB"}, "")
	if p := FindRandomEmpty(full, a, rand.New(rand.NewSource(3))); p != nil {
		t.Errorf("expected nil on a grid with no empty cell, got %v", p)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := testDesign(t)
	d.Metadata = map[string]string{"author": "me"}
	c := d.Clone()

	c.Grid.SetCellAt(core.P(0, 0), "B")
	c.Aliases.Define(core.SolidAlias, "A")
	c.Rules[0].Become = "?>?"
	c.Player.X++
	c.Metadata["author"] = "you"
	c.Palette.SetCode("A", red)

	if d.Grid.CellAt(core.P(0, 0)) != "A" {
		t.Error("grid shared with clone")
	}
	if d.Aliases.Contains(core.SolidAlias, "A") {
		t.Error("aliases shared with clone")
	}
	if d.Rules[0].Become != " #>" {
		t.Error("rules shared with clone")
	}
	if d.Player.X == c.Player.X {
		t.Error("player shared with clone")
	}
	if d.Metadata["author"] != "me" {
		t.Error("metadata shared with clone")
	}
	if col, _ := d.Palette.ColorFor("A"); col != white {
		t.Error("palette shared with clone")
	}
}

func TestDesignJSONRoundTrip(t *testing.T) {
	d := testDesign(t)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var loaded Design
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if loaded.ID != "box" {
		t.Errorf("ID: expected box, got %q", loaded.ID)
	}
	if !loaded.Grid.Equal(d.Grid) || !loaded.Aliases.Equal(d.Aliases) || !loaded.Palette.Equal(d.Palette) {
		t.Error("round trip changed the design")
	}
	if *loaded.Player != *d.Player {
		t.Errorf("player: expected %v, got %v", *d.Player, *loaded.Player)
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	d := testDesign(t)
	d.Grid.SetCellAt(core.P(0, 0), "Z")
	d.Aliases.Define("k", "Q")
	d.Rules = append(d.Rules,
		core.Rule{Match: "  ", Become: "  "},
		core.Rule{Match: "> ", Become: "W>"},
		core.Rule{Match: "> ", Become: "e>"},
		core.Rule{Match: ">#", Become: "##"},
	)
	d.Aliases = core.AliasesFromEntries(append(d.Aliases.Entries(), core.AliasEntry{Name: "e"}))
	p := core.P(9, 9)
	d.Player = &p

	err := Validate(d)
	expected := []error{
		core.ErrUnknownCode,
		core.ErrMissingPlayerMarker,
		core.ErrUnknownSymbol,
		core.ErrEmptyAliasExpansion,
		core.ErrInvalidSpawn,
	}
	for _, e := range expected {
		if !errors.Is(err, e) {
			t.Errorf("expected %v among problems, got %v", e, err)
		}
	}

	// unknown cell, dangling alias member, and one per broken rule plus spawn
	if n := len(Problems(d)); n != 6 {
		t.Errorf("expected 6 problems, got %d: %v", n, Problems(d))
	}
}

func TestValidateBlankAlias(t *testing.T) {
	d := testDesign(t)
	d.Aliases = core.NewAliases()
	if err := Validate(d); !errors.Is(err, core.ErrNoBlankDefined) {
		t.Errorf("expected ErrNoBlankDefined, got %v", err)
	}
}

func TestValidateCapturedBecomeSymbols(t *testing.T) {
	d := testDesign(t)
	d.Rules = []core.Rule{{Match: "x>", Become: ">x"}}
	if err := Validate(d); err != nil {
		t.Errorf("symbols served from captures need no alias: %v", err)
	}
}

func TestFromBundleFillsDefaults(t *testing.T) {
	d, err := Parse([]byte(`{"gridSize": 2, "grid": ["AA", "AB"], "palette": [["A", "#ffffff"], ["B", "#000000"]]}`), "old/legacy.json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.ID != "legacy" {
		t.Errorf("ID should default to the file name, got %q", d.ID)
	}
	if got := d.Aliases.Expand(core.SolidAlias); !reflect.DeepEqual(got, []core.ColorCode{"B"}) {
		t.Errorf("solid alias: expected [B], got %v", got)
	}
	if len(d.Rules) != len(DefaultRules()) {
		t.Errorf("rules should default, got %v", d.Rules)
	}
}

const loaderYAML = `id: %s
name: Test
palette:
  - [A, "#ffffff"]
grid:
  size: {x: 1, y: 1}
  data: ["A"]
`

func TestLoaderFS(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":          {Data: []byte("id: zeta\n" + loaderYAML[len("id: %s\n"):])},
		"nested/a.yml":    {Data: []byte("id: alpha\n" + loaderYAML[len("id: %s\n"):])},
		"broken.json":     {Data: []byte(`{`)},
		"notes/readme.md": {Data: []byte("ignored")},
	}

	l := NewFSLoader(fsys)
	ids, err := l.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"alpha", "zeta"}) {
		t.Errorf("ListIDs: expected [alpha zeta], got %v", ids)
	}

	d, err := l.LoadByID("zeta")
	if err != nil {
		t.Fatalf("LoadByID: %v", err)
	}
	if d.Title() != "Test" {
		t.Errorf("Title: expected Test, got %q", d.Title())
	}

	if _, err := l.LoadByID("missing"); err == nil {
		t.Error("expected error for missing design")
	}
}

func TestLoaderDirectory(t *testing.T) {
	dir := t.TempDir()
	data, _ := json.Marshal(testDesign(t))
	if err := os.WriteFile(filepath.Join(dir, "box.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	designs, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(designs) != 1 {
		t.Fatalf("expected 1 design, got %d", len(designs))
	}
	if designs[0].FilePath != filepath.Join(dir, "box.json") {
		t.Errorf("FilePath: got %q", designs[0].FilePath)
	}

	d, err := LoadPath(filepath.Join(dir, "box.json"))
	if err != nil {
		t.Fatalf("LoadPath: %v", err)
	}
	if d.ID != "box" {
		t.Errorf("LoadPath ID: expected box, got %q", d.ID)
	}
}
