package rollout

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
	"github.com/vovakirdan/tui-coinrun/internal/games/coinrun"
)

// Policy picks the action code for the next tick. Policies are created per
// episode and are not shared between goroutines.
type Policy interface {
	Name() string
	Act(l *coinrun.Level) int
}

// Policy names accepted by NewPolicy.
const (
	PolicyRandom = "random"
	PolicyRunner = "runner"
	PolicyIdle   = "idle"
)

// PolicyNames lists the built-in policies.
func PolicyNames() []string {
	return []string{PolicyRandom, PolicyRunner, PolicyIdle}
}

// NewPolicy creates a built-in policy for one episode. Random policies are
// seeded from the episode seed so batches stay reproducible.
func NewPolicy(name string, seed uint64) (Policy, error) {
	switch name {
	case PolicyRandom:
		return &randomPolicy{rng: engine.NewRNG(seed ^ 0x9e3779b97f4a7c15)}, nil
	case PolicyRunner:
		return runnerPolicy{}, nil
	case PolicyIdle:
		return idlePolicy{}, nil
	}
	return nil, fmt.Errorf("rollout: unknown policy %q", name)
}

type randomPolicy struct {
	rng *engine.RNG
}

func (p *randomPolicy) Name() string { return PolicyRandom }

func (p *randomPolicy) Act(*coinrun.Level) int {
	return p.rng.Intn(core.NumActionCodes)
}

type idlePolicy struct{}

func (idlePolicy) Name() string { return PolicyIdle }

func (idlePolicy) Act(*coinrun.Level) int { return core.EncodeAction(0, 0) }

// runnerPolicy holds right and jumps at walls, gaps and monsters.
type runnerPolicy struct{}

// lookahead is how far ahead of its leading edge the runner watches for danger.
const lookahead = 2.5

func (runnerPolicy) Name() string { return PolicyRunner }

func (runnerPolicy) Act(l *coinrun.Level) int {
	right := core.EncodeAction(1, 0)
	if !l.HasSupport() {
		return right
	}

	a := l.Agent()
	g := l.World().Grid
	front := a.X + a.RX + 0.5

	wall := g.At(front, a.Y).IsWall() || g.At(front, a.Y+1).IsWall()
	gap := !g.At(front, a.Bottom()-0.5).IsWall()
	if wall || gap || monsterAhead(l, a) {
		return core.EncodeAction(1, 1)
	}
	return right
}

func monsterAhead(l *coinrun.Level, a *engine.Entity) bool {
	for _, e := range l.World().Entities {
		if e.Kind != engine.KindEnemy && e.Kind != engine.KindSaw {
			continue
		}
		dx := e.X - a.X
		if dx > 0 && dx < lookahead+a.RX && math.Abs(e.Y-a.Y) < 1.5 {
			return true
		}
	}
	return false
}

// scriptPolicy replays a fixed action list, then idles.
type scriptPolicy struct {
	actions []int
	next    int
}

func (p *scriptPolicy) Name() string { return "script" }

func (p *scriptPolicy) Act(*coinrun.Level) int {
	if p.next >= len(p.actions) {
		return core.EncodeAction(0, 0)
	}
	code := p.actions[p.next]
	p.next++
	return code
}
