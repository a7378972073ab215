package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/gamify/internal/config"
	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/registry"
	"github.com/vovakirdan/gamify/internal/storage"
)

// screenshotDir is where ctrl+s saves the current screen.
const screenshotDir = "~/.gamify/screenshots"

// Options tune the play screen.
type Options struct {
	ShowHelp    bool        // Show the key help line below the grid
	RecordPlays bool        // Save a play record when an attempt ends
	Logger      *log.Logger // nil discards
}

// resizer is implemented by sessions that can follow the terminal size
// without restarting.
type resizer interface {
	Resize(w, h int)
}

// PlayModel is the Bubble Tea model for playing one design.
// Input is applied as soon as a key arrives; there is no tick loop.
type PlayModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	opts       Options
	log        *log.Logger
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	quitting   bool
	backToMenu bool
	recorded   bool // Whether the current attempt has been saved
}

// NewPlayModel creates a play model and resets the game.
func NewPlayModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) PlayModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := PlayModel{
		game:       game,
		store:      store,
		config:     cfg,
		opts:       opts,
		log:        logger,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
	}
	m.help.Width = cfg.ScreenW

	w, h := m.gameArea()
	m.screen = core.NewScreen(w, h)
	m.game.Reset(m.gameConfig())
	m.gameState = m.game.State()
	return m
}

// gameArea returns the screen size left for the game.
func (m PlayModel) gameArea() (int, int) {
	h := m.config.ScreenH
	if m.opts.ShowHelp && h > 1 {
		h--
	}
	return m.config.ScreenW, h
}

// gameConfig is the runtime config the game sees.
func (m PlayModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenW, cfg.ScreenH = m.gameArea()
	return cfg
}

// Init initializes the model.
func (m PlayModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

// handleKey processes keyboard input and steps the game.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Keys()
	switch {
	case key.Matches(msg, keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.recordPlay()
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) {
		m.recordPlay()
		m.inputFrame.Clear()
		m.backToMenu = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionReset) {
		m.recordPlay()
		m.recorded = false
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if err := m.gameState.LastErr; err != nil {
		m.log.Debug("move rejected", "design", m.game.ID(), "error", err)
	}

	m.inputFrame.Clear()
	return m, nil
}

// handleResize processes window resize events.
func (m PlayModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width

	w, h := m.gameArea()
	m.screen.Resize(w, h)

	// Sessions that can resize keep their progress
	if r, ok := m.game.(resizer); ok {
		r.Resize(w, h)
	} else {
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
	}

	return m, nil
}

// recordPlay saves the current attempt once. Attempts without a move are
// not recorded.
func (m *PlayModel) recordPlay() {
	if m.recorded || m.store == nil || !m.opts.RecordPlays || m.gameState.Moves == 0 {
		return
	}
	_, err := m.store.RecordPlay(storage.PlayRecord{
		DesignID: m.game.ID(),
		Moves:    m.gameState.Moves,
		Bumps:    m.gameState.Bumps,
		Seed:     m.config.Seed,
	})
	if err != nil {
		m.log.Warn("could not record play", "design", m.game.ID(), "error", err)
		return
	}
	m.recorded = true
}

// saveScreenshot saves the current screen to a file.
func (m *PlayModel) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	dir := config.ExpandHome(screenshotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.log.Warn("could not save screenshot", "error", err)
		return
	}

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.log.Warn("could not save screenshot", "path", path, "error", err)
		return
	}
	m.log.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)
	view := RenderScreen(m.screen)

	if m.opts.ShowHelp {
		helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		view += "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys()))
	}
	return view
}

// State returns the last known play state.
func (m PlayModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to the library.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single design until the user quits or goes back.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	model := NewPlayModel(game, store, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
