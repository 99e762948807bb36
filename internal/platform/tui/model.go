package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
	"github.com/vovakirdan/tui-coinrun/internal/registry"
	"github.com/vovakirdan/tui-coinrun/internal/storage"
)

// episodeDescriber is implemented by games that can report a finished episode.
type episodeDescriber interface {
	Describe() coinrun.EpisodeInfo
}

// Model is the Bubble Tea model for playing one level.
type Model struct {
	game         registry.Game
	screen       *core.Screen
	store        *storage.Store
	logger       *log.Logger
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	held         heldKeys
	inputFrame   core.InputFrame
	gameState    core.GameState
	fromMenu     bool
	quitting     bool
	backToMenu   bool
	episodeSaved bool // Whether the current episode has been stored
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		// The camera follows the agent, so a resize never restarts the episode.
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionBack:
		if m.fromMenu && (m.gameState.GameOver || m.gameState.Paused) {
			m.backToMenu = true
		}
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionLeft, core.ActionRight, core.ActionDuck:
		m.held.press(action)
	case core.ActionJump:
		m.held.press(action)
		m.inputFrame.Set(action)
	case core.ActionPause:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.backToMenu {
		return m, nil
	}

	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.episodeSaved = false
		m.held.release()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	m.held.apply(&m.inputFrame)
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.episodeSaved {
		m.saveEpisode()
		m.episodeSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveEpisode stores the finished episode. Failures are logged, never fatal.
func (m *Model) saveEpisode() {
	d, ok := m.game.(episodeDescriber)
	if !ok || m.store == nil {
		return
	}
	info := d.Describe()
	if info.Outcome == coinrun.OutcomeRunning {
		return
	}

	id, err := m.store.SaveEpisode(storage.Episode{
		GameID:        m.game.ID(),
		Seed:          info.Seed,
		Difficulty:    info.Difficulty,
		Hazard:        info.Hazard,
		Outcome:       info.Outcome.String(),
		Cause:         info.Cause,
		Ticks:         info.Ticks,
		Reward:        info.Reward,
		LevelComplete: info.Outcome == coinrun.OutcomeGoal,
		Source:        storage.SourcePlay,
	})
	if m.logger == nil {
		return
	}
	if err != nil {
		m.logger.Warn("could not save episode", "game", m.game.ID(), "error", err)
		return
	}
	m.logger.Debug("episode saved", "id", id, "game", m.game.ID(), "outcome", info.Outcome, "ticks", info.Ticks)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".coinrun", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	var sb strings.Builder
	for y := range m.screen.Height() {
		sb.WriteString(strings.TrimRight(m.screen.Row(y), " "))
		sb.WriteByte('\n')
	}

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(sb.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program for a single game.
func Run(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, logger, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
