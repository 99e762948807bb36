package coinrun

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/config"
	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// gameLogger receives generator and episode logs from interactive games.
var gameLogger *log.Logger

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = config.DifficultyFixed
	}
	difficultyPreset = p
}

// SetLogger routes level logs of interactive games to l.
func SetLogger(l *log.Logger) {
	gameLogger = l
}

// LoadConfig loads the configured YAML and applies the CLI preset and the
// variant overlay.
func LoadConfig(v Variant) (config.CoinrunConfig, error) {
	cfg, err := config.LoadCoinrun(configPath)
	if err != nil {
		return cfg, err
	}
	config.ApplyCoinrunPreset(&cfg, difficultyPreset)
	v.Apply(&cfg)
	return cfg, nil
}

// Game adapts a Level to the platform's registry.Game interface.
type Game struct {
	variant Variant
	cfg     config.CoinrunConfig
	loaded  bool

	level   *Level
	runtime core.RuntimeConfig
	paused  bool
	err     error
}

var _ registry.Game = (*Game)(nil)

// NewGame creates a game for the given variant.
func NewGame(v Variant) *Game {
	return &Game{variant: v}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.variant.ID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.variant.Title
}

// Reset builds a new episode from the runtime seed.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.paused = false
	g.err = nil

	if !g.loaded {
		cfg, err := LoadConfig(g.variant)
		if err != nil {
			g.err = err
			return
		}
		g.cfg = cfg
		g.loaded = true
	}

	l, err := Build(g.cfg, uint64(rc.Seed), gameLogger) //#nosec G115 -- seed bits reinterpreted
	if err != nil {
		g.err = fmt.Errorf("coinrun: build level: %w", err)
		g.level = nil
		return
	}
	g.level = l
}

// Step advances the level by one tick using the frame's movement actions.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.level == nil {
		return core.StepResult{State: g.State()}
	}

	// A pause toggle spends no tick in either direction.
	toggled := in.Has(core.ActionPause) && !g.level.Done()
	if toggled {
		g.paused = !g.paused
	}
	if toggled || g.paused || g.level.Done() {
		return core.StepResult{State: g.State(), Done: g.level.Done(), LevelComplete: g.level.Outcome() == OutcomeGoal}
	}

	data := g.level.Step(in.ActionCode())
	return core.StepResult{
		State:         g.State(),
		Reward:        data.Reward,
		Done:          data.Done,
		LevelComplete: data.LevelComplete,
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.level == nil {
		return core.GameState{GameOver: g.err != nil}
	}
	return core.GameState{
		Score:    int(g.level.TotalReward()),
		GameOver: g.level.Done(),
		Paused:   g.paused,
		Won:      g.level.Outcome() == OutcomeGoal,
	}
}

// Level returns the running level, or nil if it failed to build.
func (g *Game) Level() *Level {
	return g.level
}

// Err returns the configuration error that prevented the level from building.
func (g *Game) Err() error {
	return g.err
}

// EpisodeInfo identifies an episode and how it ended.
type EpisodeInfo struct {
	Difficulty int
	Hazard     string
	Seed       uint64
	Ticks      int
	Outcome    Outcome
	Cause      string
	Reward     float64
}

// Describe reports the current episode for result storage.
func (g *Game) Describe() EpisodeInfo {
	if g.level == nil {
		return EpisodeInfo{}
	}
	p := g.level.Params()
	return EpisodeInfo{
		Difficulty: p.Difficulty,
		Hazard:     p.Hazard.String(),
		Seed:       g.level.Seed(),
		Ticks:      g.level.Ticks(),
		Outcome:    g.level.Outcome(),
		Cause:      g.level.Cause(),
		Reward:     g.level.TotalReward(),
	}
}
