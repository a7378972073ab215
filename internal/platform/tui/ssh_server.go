// Package tui provides the terminal front end: the design library, the play
// screen and SSH server support via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gamify/internal/config"
	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/registry"
	"github.com/vovakirdan/gamify/internal/storage"
)

// shutdownTimeout bounds how long Shutdown waits for open sessions.
const shutdownTimeout = 10 * time.Second

// SSHServer wraps a Wish SSH server that serves the design library.
type SSHServer struct {
	config config.SSHConfig
	opts   Options
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server. The store may be nil, in which
// case plays are not recorded.
func NewSSHServer(cfg config.SSHConfig, store *storage.Store, opts Options) (*SSHServer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gamify-ssh",
		})
	}
	opts.Logger = logger

	srv := &SSHServer{
		config: cfg,
		opts:   opts,
		store:  store,
		logger: logger,
	}

	// Ensure host key directory exists
	hostKeyPath := config.ExpandHome(cfg.HostKeyPath)
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	sshOpts := []ssh.Option{
		wish.WithAddress(cfg.Addr),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		sshOpts = append(sshOpts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.MaxTimeout > 0 {
		sshOpts = append(sshOpts, wish.WithMaxTimeout(cfg.MaxTimeout))
	}

	server, err := wish.NewServer(sshOpts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
	}

	model := NewAppModel(s.store, cfg, s.opts)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Addr
}

// AppModel manages the full session flow: library -> play -> library.
// It is the top-level model for SSH sessions and the local library.
type AppModel struct {
	store    *storage.Store
	config   core.RuntimeConfig
	opts     Options
	library  LibraryModel
	play     *PlayModel
	quitting bool
	err      error // Last failure to start a design
}

// NewAppModel creates a session that starts in the library.
func NewAppModel(store *storage.Store, cfg core.RuntimeConfig, opts Options) AppModel {
	return AppModel{
		store:   store,
		config:  cfg,
		opts:    opts,
		library: NewLibraryModel(store, cfg),
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.library.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.play != nil {
		return m.updatePlay(msg)
	}
	return m.updateLibrary(msg)
}

// updateLibrary handles updates while picking a design.
func (m AppModel) updateLibrary(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLib, cmd := m.library.Update(msg)
	if lib, ok := newLib.(LibraryModel); ok {
		m.library = lib
	}

	if m.library.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.library.Selected(); selected != nil {
		game, err := registry.Create(selected.ID)
		if err != nil {
			m.err = err
			m.library = NewLibraryModel(m.store, m.config)
			return m, nil
		}

		m.err = nil
		cfg := m.config
		cfg.Seed = 0 // Fresh seed per play
		play := NewPlayModel(game, m.store, cfg, m.opts)
		m.play = &play
		return m, m.play.Init()
	}

	return m, cmd
}

// updatePlay handles updates while playing.
func (m AppModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if play, ok := newModel.(PlayModel); ok {
		m.play = &play
	}

	// Back to the library, with refreshed stats
	if m.play.BackToMenu() {
		m.play = nil
		m.library = NewLibraryModel(m.store, m.config)
		return m, m.library.Init()
	}

	if m.play.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.play != nil {
		return m.play.View()
	}
	if m.err != nil {
		return m.library.View() + "\n" + m.err.Error()
	}
	return m.library.View()
}

// RunApp runs the library and play screens in the local terminal.
func RunApp(store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewAppModel(store, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
