package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-coinrun/internal/registry"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

// Episode board layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show game list sidebar
	sidebarWidth       = 24  // Width of game list sidebar
	maxEpisodes        = 100 // Max episodes to load
)

// EpisodesKeyMap defines the key bindings for the episode board.
type EpisodesKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Toggle   key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k EpisodesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.Toggle, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k EpisodesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.Toggle, k.Back, k.Quit},
	}
}

// DefaultEpisodesKeyMap returns default key bindings.
func DefaultEpisodesKeyMap() EpisodesKeyMap {
	return EpisodesKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev level"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next level"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next level"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev level"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "best/recent"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// EpisodesModel is the Bubble Tea model for the episode board.
type EpisodesModel struct {
	games       []registry.GameInfo
	gameCursor  int
	store       *storage.Store
	episodes    []storage.Episode
	stats       *storage.GameStats
	recent      bool // Show most recent instead of best episodes
	table       table.Model
	help        help.Model
	keys        EpisodesKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool
}

// NewEpisodesModel creates a new episode board over the games of reg.
func NewEpisodesModel(reg *registry.Registry, store *storage.Store, width, height int) EpisodesModel {
	h := help.New()
	h.ShowAll = false

	m := EpisodesModel{
		games:       reg.List(),
		store:       store,
		keys:        DefaultEpisodesKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.load()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *EpisodesModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Result", Width: 8},
		{Title: "Ticks", Width: 6},
		{Title: "Reward", Width: 7},
		{Title: "Seed", Width: 10},
		{Title: "Cause", Width: 6},
		{Title: "Date", Width: 12},
	}

	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}
	// Cause takes whatever is left
	if extra := tableWidth - 60; extra > 0 {
		columns[5].Width += min(extra, 10)
	}

	height := m.height - 10 // Header, stats line, help and margins
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
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

// load fetches episodes and stats for the selected game.
func (m *EpisodesModel) load() {
	m.episodes = nil
	m.stats = nil
	if m.store == nil || len(m.games) == 0 {
		m.updateTableRows()
		return
	}

	id := m.games[m.gameCursor].ID
	var (
		episodes []storage.Episode
		err      error
	)
	if m.recent {
		episodes, err = m.store.RecentEpisodes(id, maxEpisodes)
	} else {
		episodes, err = m.store.TopEpisodes(id, maxEpisodes)
	}
	if err == nil {
		m.episodes = episodes
	}
	if stats, err := m.store.GetGameStats(id); err == nil {
		m.stats = stats
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current episodes.
func (m *EpisodesModel) updateTableRows() {
	m.table.SetRows(episodeRows(m.episodes))
	m.table.GotoTop()
}

// episodeRows formats episodes as table rows.
func episodeRows(episodes []storage.Episode) []table.Row {
	rows := make([]table.Row, len(episodes))
	for i, e := range episodes {
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			e.Outcome,
			strconv.Itoa(e.Ticks),
			fmt.Sprintf("%.0f", e.Reward),
			strconv.FormatUint(e.Seed, 10),
			e.Cause,
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// statsLine summarizes the selected game's record.
func statsLine(s *storage.GameStats) string {
	if s == nil || s.Episodes == 0 {
		return "no episodes yet"
	}
	best := "-"
	if s.BestTicks > 0 {
		best = strconv.Itoa(s.BestTicks)
	}
	return fmt.Sprintf("%d episodes  %d cleared (%.0f%%)  best %s ticks  avg %.0f ticks",
		s.Episodes, s.Completed, 100*s.CompletionRate(), best, s.AvgTicks)
}

// Init initializes the episode board.
func (m EpisodesModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the episode board.
func (m EpisodesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			m.recent = !m.recent
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.NextGame), key.Matches(msg, m.keys.Right):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame), key.Matches(msg, m.keys.Left):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + len(m.games) - 1) % len(m.games)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the episode board.
func (m EpisodesModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	view := "BEST RUNS"
	if m.recent {
		view = "RECENT RUNS"
	}
	title := view
	if len(m.games) > 0 {
		title = fmt.Sprintf("%s - %s", view, m.games[m.gameCursor].Title)
	}

	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(centerText(statsLine(m.stats), m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the board with a sidebar for level selection.
func (m EpisodesModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Levels\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + truncate(g.Title, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the board with the level name above the table.
func (m EpisodesModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.games) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.games[m.gameCursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m EpisodesModel) renderTableContent() string {
	if len(m.episodes) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No episodes recorded yet.\nPlay a level or run a rollout!")
	}

	return m.table.View()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// IsGoingBack returns true if user wants to go back to menu.
func (m EpisodesModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m EpisodesModel) IsQuitting() bool {
	return m.quitting
}

// RunEpisodes runs the episode board.
// Returns true if user wants to go back to menu, false if quitting.
func RunEpisodes(reg *registry.Registry, store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewEpisodesModel(reg, store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(EpisodesModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
