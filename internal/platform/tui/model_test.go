package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/game"
	"github.com/vovakirdan/gamify/internal/registry"
	"github.com/vovakirdan/gamify/internal/storage"
)

var testConfig = core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newCorridor(t *testing.T, store *storage.Store, opts Options) PlayModel {
	t.Helper()
	g, err := registry.Create("corridor")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return NewPlayModel(g, store, testConfig, opts)
}

func press(m PlayModel, msgs ...tea.Msg) (PlayModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(PlayModel)
	}
	return m, cmd
}

func TestPlayModelMoves(t *testing.T) {
	m := newCorridor(t, nil, Options{})
	m, _ = press(m, runes("j"), runes("l"), runes("l"))

	state := m.State()
	if state.Moves != 3 {
		t.Errorf("moves: expected 3, got %d", state.Moves)
	}
	if state.Player == nil || *state.Player != core.P(3, 2) {
		t.Errorf("player: expected (3,2), got %v", state.Player)
	}

	m, _ = press(m, runes("r"))
	if m.State().Moves != 0 {
		t.Errorf("moves after reset: expected 0, got %d", m.State().Moves)
	}
	if p := m.State().Player; p == nil || *p != core.P(1, 1) {
		t.Errorf("player after reset: expected (1,1), got %v", p)
	}
}

func TestPlayModelBumpIntoWall(t *testing.T) {
	m := newCorridor(t, nil, Options{})
	m, _ = press(m, runes("k"))

	if m.State().Moves != 0 || m.State().Bumps != 1 {
		t.Errorf("expected 0 moves and 1 bump, got %+v", m.State())
	}
}

func TestPlayModelQuitAndBack(t *testing.T) {
	m := newCorridor(t, nil, Options{})
	m, cmd := press(m, runes("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}

	m = newCorridor(t, nil, Options{})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || m.IsQuitting() {
		t.Error("esc should go back without quitting")
	}
}

func TestPlayModelRecordsPlay(t *testing.T) {
	store := openTestStore(t)
	opts := Options{RecordPlays: true}

	m := newCorridor(t, store, opts)
	m, _ = press(m, runes("j"), runes("k"), runes("k"), runes("q"))

	history, err := store.History("corridor", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 play, got %d", len(history))
	}
	if history[0].Moves != 2 || history[0].Bumps != 1 || history[0].Seed != testConfig.Seed {
		t.Errorf("unexpected record %+v", history[0])
	}

	// A reset ends an attempt; an attempt without moves is not saved
	m = newCorridor(t, store, opts)
	m, _ = press(m, runes("j"), runes("r"), tea.KeyMsg{Type: tea.KeyEsc})
	history, err = store.History("corridor", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 plays, got %d", len(history))
	}
}

func TestPlayModelRecordingDisabled(t *testing.T) {
	store := openTestStore(t)
	m := newCorridor(t, store, Options{})
	press(m, runes("j"), runes("q"))

	history, err := store.History("", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected no plays, got %d", len(history))
	}
}

func TestPlayModelResizeKeepsProgress(t *testing.T) {
	m := newCorridor(t, nil, Options{})
	m, _ = press(m, runes("j"), tea.WindowSizeMsg{Width: 40, Height: 12})

	if m.State().Moves != 1 {
		t.Errorf("moves after resize: expected 1, got %d", m.State().Moves)
	}
	lines := strings.Split(stripANSI(m.View()), "\n")
	if len(lines) != 12 {
		t.Errorf("expected 12 lines, got %d", len(lines))
	}
}

func TestPlayModelView(t *testing.T) {
	m := newCorridor(t, nil, Options{ShowHelp: true})
	view := stripANSI(m.View())

	if !strings.Contains(view, "Corridor") {
		t.Error("view should show the design title")
	}
	if !strings.Contains(view, "reset") {
		t.Error("view should show key help")
	}
	if lines := strings.Split(view, "\n"); len(lines) != testConfig.ScreenH {
		t.Errorf("expected %d lines, got %d", testConfig.ScreenH, len(lines))
	}
}

var _ resizer = (*game.Session)(nil)
