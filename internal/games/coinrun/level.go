// Package coinrun implements the CoinRun level type: a procedurally built
// left-to-right obstacle course with pits, saws, patrolling enemies and
// crate stacks, plus the physics, collision and termination rules the
// course is built around.
package coinrun

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// Outcome is the terminal state of an episode.
type Outcome int

const (
	OutcomeRunning Outcome = iota
	OutcomeDeath
	OutcomeGoal
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDeath:
		return "death"
	case OutcomeGoal:
		return "goal"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "running"
	}
}

// Level is one simulation instance. It owns its world and implements
// engine.Policy for it.
type Level struct {
	params Parameters
	opts   Options
	logger *log.Logger

	world  *engine.World
	goal   *engine.Entity
	report Report
	seed   uint64

	// Runtime state carried in snapshots.
	lastAgentY  float64
	wallTheme   int
	hasSupport  bool
	facingRight bool
	isOnCrate   bool
	gravity     float64
	airControl  float64

	outcome Outcome
	cause   string
}

var _ engine.Policy = (*Level)(nil)

// NewLevel validates the configuration and builds the first episode with seed 0.
func NewLevel(p Parameters, opts Options) (*Level, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p.Sections = append([]SectionParameters(nil), p.Sections...)

	l := &Level{
		params: p,
		opts:   opts,
		logger: opts.Logger,
	}
	if l.logger == nil {
		l.logger = discardLogger()
	}
	l.world = engine.NewWorld(opts.Width, opts.Height, 0)
	l.Reset(0)
	return l, nil
}

// Reset starts a new episode. The seed drives only cosmetic theme choices;
// the layout is fully determined by the parameters.
func (l *Level) Reset(seed uint64) {
	w := l.world
	w.Reset(seed)
	w.SubSteps = l.opts.SubSteps
	w.Timeout = l.opts.Timeout

	l.seed = seed
	l.gravity = l.opts.Physics.Gravity
	l.airControl = l.opts.Physics.AirControl
	l.hasSupport = false
	l.facingRight = true
	l.outcome = OutcomeRunning
	l.cause = ""

	a := w.Agent
	if l.easy() {
		a.Theme = 0
		l.wallTheme = 0
	} else {
		a.Theme = w.RNG.Intn(NumPlayerThemes)
		l.wallTheme = l.params.GroundTheme
	}

	a.RX = agentRX
	a.RY = agentRY
	a.X = 1 + a.RX
	a.Y = 1 + a.RY
	a.VX, a.VY = 0, 0
	l.lastAgentY = a.Y
	l.isOnCrate = false

	l.initFloorAndWalls()
	l.report = l.generate()
}

// Step advances one tick with a discrete action code in [0, 8].
// After the episode ends it returns a zero-reward done result.
func (l *Level) Step(code int) engine.StepData {
	if l.outcome != OutcomeRunning {
		return engine.StepData{Done: true, LevelComplete: l.outcome == OutcomeGoal}
	}
	code = core.Clamp(code, 0, core.NumActionCodes-1)

	data := l.world.Step(code, l)
	if data.Done {
		l.finish(data)
	}
	return data
}

func (l *Level) finish(data engine.StepData) {
	switch {
	case data.LevelComplete:
		l.outcome = OutcomeGoal
		l.cause = "goal"
	case data.TimedOut:
		l.outcome = OutcomeTimeout
		l.cause = "timeout"
	default:
		l.outcome = OutcomeDeath
	}
	l.logger.Debug("episode ended",
		"outcome", l.outcome,
		"cause", l.cause,
		"ticks", l.world.Tick,
		"reward", l.TotalReward(),
	)
}

func (l *Level) easy() bool {
	return l.opts.Distribution == DistributionEasy
}

// Params returns the level configuration.
func (l *Level) Params() Parameters { return l.params }

// Options returns the host options.
func (l *Level) Options() Options { return l.opts }

// World exposes the underlying simulation for rendering and inspection.
func (l *Level) World() *engine.World { return l.world }

// Agent returns the controllable entity.
func (l *Level) Agent() *engine.Entity { return l.world.Agent }

// Goal returns the goal marker entity.
func (l *Level) Goal() *engine.Entity { return l.goal }

// Report describes the most recent generation pass.
func (l *Level) Report() Report { return l.report }

// Seed returns the seed of the current episode.
func (l *Level) Seed() uint64 { return l.seed }

// Ticks returns the number of ticks simulated this episode.
func (l *Level) Ticks() int { return l.world.Tick }

// Done reports whether the episode has ended.
func (l *Level) Done() bool { return l.outcome != OutcomeRunning }

// Outcome returns how the episode ended.
func (l *Level) Outcome() Outcome { return l.outcome }

// Cause names what ended the episode, e.g. "lava" or "saw".
func (l *Level) Cause() string { return l.cause }

// TotalReward returns the reward accumulated this episode. The goal bonus
// is the only reward source.
func (l *Level) TotalReward() float64 {
	if l.outcome == OutcomeGoal {
		return GoalReward
	}
	return 0
}

// HasSupport reports whether the agent was standing on something at the
// start of the last tick.
func (l *Level) HasSupport() bool { return l.hasSupport }

// FacingRight reports the agent's orientation.
func (l *Level) FacingRight() bool { return l.facingRight }

// WallTheme returns the ground palette index in use.
func (l *Level) WallTheme() int { return l.wallTheme }
