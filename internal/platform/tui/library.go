package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/gamify/internal/core"
	"github.com/vovakirdan/gamify/internal/registry"
	"github.com/vovakirdan/gamify/internal/storage"
)

// Library layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the history sidebar
	sidebarWidth       = 28 // Width of the history sidebar
	sidebarPlays       = 8  // Recent plays shown in the sidebar
)

// LibraryKeyMap defines the key bindings for the design library.
type LibraryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LibraryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LibraryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Quit},
	}
}

// DefaultLibraryKeyMap returns default key bindings.
func DefaultLibraryKeyMap() LibraryKeyMap {
	return LibraryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "play"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// LibraryModel is the Bubble Tea model for picking a design to play.
// It lists registered designs with their play stats, and on wide
// terminals the recent plays of the highlighted design.
type LibraryModel struct {
	designs     []registry.GameInfo
	stats       map[string]storage.PlayStats
	history     []storage.PlayRecord // Recent plays of the highlighted design
	store       *storage.Store
	config      core.RuntimeConfig
	table       table.Model
	help        help.Model
	keys        LibraryKeyMap
	width       int
	height      int
	showSidebar bool
	quitting    bool
	selected    *registry.GameInfo // Set when user picks a design
}

// NewLibraryModel creates a library over the registered designs.
func NewLibraryModel(store *storage.Store, cfg core.RuntimeConfig) LibraryModel {
	h := help.New()
	h.Width = cfg.ScreenW

	m := LibraryModel{
		designs:     registry.List(),
		stats:       make(map[string]storage.PlayStats),
		store:       store,
		config:      cfg,
		keys:        DefaultLibraryKeyMap(),
		help:        h,
		width:       cfg.ScreenW,
		height:      cfg.ScreenH,
		showSidebar: cfg.ScreenW >= minWidthForSidebar,
	}

	m.loadStats()
	m.table = m.createTable()
	m.updateTableRows()
	m.loadHistory()
	return m
}

// createTable creates a new table sized for the current window.
func (m *LibraryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Design", Width: 14},
		{Title: "Title", Width: 18},
		{Title: "Plays", Width: 6},
		{Title: "Best", Width: 6},
	}

	// Give spare width to the title column
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 4 // Sidebar + border + gap
	}
	if extra := tableWidth - 52; extra > 0 {
		columns[1].Width += min(extra, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadStats reads the play stats of every design. Without a store the
// stats stay empty.
func (m *LibraryModel) loadStats() {
	if m.store == nil {
		return
	}
	for _, d := range m.designs {
		st, err := m.store.Stats(d.ID)
		if err != nil {
			continue
		}
		m.stats[d.ID] = st
	}
}

// updateTableRows fills the table from the design list.
func (m *LibraryModel) updateTableRows() {
	rows := make([]table.Row, len(m.designs))
	for i, d := range m.designs {
		st := m.stats[d.ID]
		best := "-"
		if st.Plays > 0 {
			best = fmt.Sprintf("%d", st.MostMoves)
		}
		rows[i] = table.Row{d.ID, d.Title, fmt.Sprintf("%d", st.Plays), best}
	}
	m.table.SetRows(rows)
}

// loadHistory loads the recent plays of the highlighted design.
func (m *LibraryModel) loadHistory() {
	m.history = nil
	d := m.current()
	if m.store == nil || d == nil {
		return
	}
	records, err := m.store.History(d.ID, sidebarPlays)
	if err == nil {
		m.history = records
	}
}

// current returns the highlighted design, or nil for an empty library.
func (m LibraryModel) current() *registry.GameInfo {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.designs) {
		return nil
	}
	d := m.designs[i]
	return &d
}

// Init initializes the library model.
func (m LibraryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the library.
func (m LibraryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if d := m.current(); d != nil {
				m.selected = d
				return m, tea.Quit // Exit library to start playing
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			m.table.MoveUp(1)
			m.loadHistory()
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.table.MoveDown(1)
			m.loadHistory()
			return m, nil
		}

	case tea.WindowSizeMsg:
		cursor := m.table.Cursor()
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the library.
func (m LibraryModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("G A M I F Y", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	tableRendered := tableStyle.Render(m.renderTableContent())

	if m.showSidebar {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableRendered, "  ", m.renderSidebar()))
	} else {
		b.WriteString(tableRendered)
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m LibraryModel) renderTableContent() string {
	if len(m.designs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No designs found.\nImport one with 'gamify import'.")
	}
	return m.table.View()
}

// renderSidebar renders the recent plays of the highlighted design.
func (m LibraryModel) renderSidebar() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString("Recent plays\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	if len(m.history) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
		sb.WriteString(dim.Render("none yet"))
	}
	for _, r := range m.history {
		fmt.Fprintf(&sb, "%s  %3d moves\n", r.CreatedAt.Format("Jan 02 15:04"), r.Moves)
	}

	return sidebarStyle.Render(sb.String())
}

// Selected returns the picked design, or nil if none was picked.
func (m LibraryModel) Selected() *registry.GameInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m LibraryModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m LibraryModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// RenderHistory formats play records as a table for non-interactive
// output.
func RenderHistory(records []storage.PlayRecord) string {
	columns := []table.Column{
		{Title: "#", Width: 6},
		{Title: "Design", Width: 16},
		{Title: "Moves", Width: 6},
		{Title: "Bumps", Width: 6},
		{Title: "Date", Width: 18},
	}

	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row{
			fmt.Sprintf("%d", r.ID),
			r.DesignID,
			fmt.Sprintf("%d", r.Moves),
			fmt.Sprintf("%d", r.Bumps),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// No row is highlighted outside the library
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}
