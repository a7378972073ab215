package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/design"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

const testBundle = `id: ring
name: Ring
palette:
  - [A, "#ffffff"]
  - [B, "#000000"]
aliases:
  " ": [A]
  "#": [B]
rules:
  - {match: "> ", become: " >"}
grid:
  size: {x: 3, y: 2}
  data: ["ABA", "AAA"]
player: {x: 2, y: 1}
metadata:
  author: someone
`

func testDesign(t *testing.T) *design.Design {
	t.Helper()
	d, err := design.Parse([]byte(testBundle), "ring.yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return d
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndLoadDesign(t *testing.T) {
	store := openTestStore(t)
	d := testDesign(t)

	if err := store.SaveDesign(d); err != nil {
		t.Fatalf("SaveDesign() failed: %v", err)
	}

	got, err := store.LoadDesign("ring")
	if err != nil {
		t.Fatalf("LoadDesign() failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected saved design, got nil")
	}
	if got.Name != "Ring" || got.Metadata["author"] != "someone" {
		t.Errorf("Expected name and metadata to survive, got %q %v", got.Name, got.Metadata)
	}
	if !got.Grid.Equal(d.Grid) || !got.Palette.Equal(d.Palette) || !got.Aliases.Equal(d.Aliases) {
		t.Error("Expected grid, palette and aliases to round trip")
	}
	if got.Player == nil || *got.Player != core.P(2, 1) {
		t.Errorf("Expected player (2,1), got %v", got.Player)
	}
	if len(got.Rules) != 1 || got.Rules[0] != d.Rules[0] {
		t.Errorf("Expected rules %v, got %v", d.Rules, got.Rules)
	}
}

func TestStoreSaveDesignReplaces(t *testing.T) {
	store := openTestStore(t)
	d := testDesign(t)

	if err := store.SaveDesign(d); err != nil {
		t.Fatalf("SaveDesign() failed: %v", err)
	}
	d.Name = "Renamed"
	d.Player = nil
	if err := store.SaveDesign(d); err != nil {
		t.Fatalf("SaveDesign() failed: %v", err)
	}

	entries, err := store.ListDesigns()
	if err != nil {
		t.Fatalf("ListDesigns() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 design, got %d", len(entries))
	}
	if entries[0].Name != "Renamed" || entries[0].Width != 3 || entries[0].Height != 2 {
		t.Errorf("Unexpected entry %+v", entries[0])
	}

	got, err := store.LoadDesign("ring")
	if err != nil {
		t.Fatalf("LoadDesign() failed: %v", err)
	}
	if got.Player != nil {
		t.Errorf("Expected spawn to be cleared, got %v", got.Player)
	}
}

func TestStoreSaveDesignWithoutID(t *testing.T) {
	store := openTestStore(t)
	d := testDesign(t)
	d.ID = ""
	if err := store.SaveDesign(d); err == nil {
		t.Error("Expected error for design without ID")
	}
}

func TestStoreLoadMissingDesign(t *testing.T) {
	store := openTestStore(t)
	got, err := store.LoadDesign("nope")
	if err != nil {
		t.Fatalf("LoadDesign() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing design, got %v", got.ID)
	}
}

func TestStoreListDesignsSorted(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"zeta", "alpha", "mid"} {
		d := testDesign(t)
		d.ID = id
		if err := store.SaveDesign(d); err != nil {
			t.Fatalf("SaveDesign(%s) failed: %v", id, err)
		}
	}

	entries, err := store.ListDesigns()
	if err != nil {
		t.Fatalf("ListDesigns() failed: %v", err)
	}
	want := []string{"alpha", "mid", "zeta"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d designs, got %d", len(want), len(entries))
	}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("Entry %d: expected %s, got %s", i, id, entries[i].ID)
		}
	}
}

func TestStoreDeleteDesign(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveDesign(testDesign(t)); err != nil {
		t.Fatalf("SaveDesign() failed: %v", err)
	}
	if _, err := store.RecordPlay(PlayRecord{DesignID: "ring", Moves: 3}); err != nil {
		t.Fatalf("RecordPlay() failed: %v", err)
	}

	deleted, err := store.DeleteDesign("ring")
	if err != nil {
		t.Fatalf("DeleteDesign() failed: %v", err)
	}
	if !deleted {
		t.Error("Expected design to be deleted")
	}

	if got, _ := store.LoadDesign("ring"); got != nil {
		t.Error("Expected design to be gone")
	}
	if plays, _ := store.History("ring", 10); len(plays) != 0 {
		t.Errorf("Expected plays to be deleted, got %d", len(plays))
	}

	deleted, err = store.DeleteDesign("ring")
	if err != nil {
		t.Fatalf("DeleteDesign() failed: %v", err)
	}
	if deleted {
		t.Error("Expected second delete to report nothing deleted")
	}
}

func TestStoreHistory(t *testing.T) {
	store := openTestStore(t)

	plays := []PlayRecord{
		{DesignID: "ring", Moves: 10, Bumps: 1, Seed: 5},
		{DesignID: "corridor", Moves: 4},
		{DesignID: "ring", Moves: 25, Bumps: 3, Seed: 6},
	}
	for _, p := range plays {
		if _, err := store.RecordPlay(p); err != nil {
			t.Fatalf("RecordPlay() failed: %v", err)
		}
	}

	ring, err := store.History("ring", 10)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(ring) != 2 {
		t.Fatalf("Expected 2 plays, got %d", len(ring))
	}
	// Newest first
	if ring[0].Moves != 25 || ring[0].Seed != 6 || ring[1].Moves != 10 {
		t.Errorf("Unexpected order: %+v", ring)
	}
	if ring[0].CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	all, err := store.History("", 2)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected limit of 2, got %d", len(all))
	}
	if all[1].DesignID != "corridor" {
		t.Errorf("Expected second newest to be corridor, got %s", all[1].DesignID)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats("ring")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Plays != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	for _, moves := range []int{10, 25, 5} {
		if _, err := store.RecordPlay(PlayRecord{DesignID: "ring", Moves: moves}); err != nil {
			t.Fatalf("RecordPlay() failed: %v", err)
		}
	}

	stats, err = store.Stats("ring")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Plays != 3 || stats.TotalMoves != 40 || stats.MostMoves != 25 {
		t.Errorf("Expected 3 plays, 40 moves, most 25; got %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("Expected LastPlayed to be set")
	}
}
