package coinrun

import (
	"testing"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

var (
	codeNone      = core.EncodeAction(0, 0)
	codeRight     = core.EncodeAction(1, 0)
	codeJump      = core.EncodeAction(0, 1)
	codeJumpRight = core.EncodeAction(1, 1)
	codeDuck      = core.EncodeAction(0, -1)
)

func newTestLevel(t *testing.T, p Parameters, mutate func(*Options)) *Level {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	l, err := NewLevel(p, opts)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	return l
}

// emptyLevel has no sections: the goal sits at (5, 1) on the floor.
func emptyLevel(t *testing.T) *Level {
	t.Helper()
	return newTestLevel(t, MustParameters(1, HazardSaw, 0, nil), nil)
}

// pitSection builds a single seven-wide pit at difficulty 3: ground at
// height 5, pit over columns 6..12, a platform on row 4 over columns 8..10,
// goal at (14, 5).
func pitSection(lavaHeight float64) SectionParameters {
	s := DefaultSection()
	s.DY = 2
	s.InvertDY = false
	s.DXCoefficient = 5
	s.PitX1 = 0
	s.PitX2 = 0
	s.PitPlatformX3 = 0
	s.PitPlatformW1 = 0
	s.PitLavaHeight = lavaHeight
	return s
}

// crateSection is a flat difficulty 1 section with one doubled crate pile
// and no monsters.
func crateSection() SectionParameters {
	s := DefaultSection()
	s.DXCoefficient = 1
	s.SawProbability = 9
	s.EnemyProbability = 9
	return s
}

func addCrate(l *Level, x, y float64) *engine.Entity {
	return l.World().Add(&engine.Entity{
		Kind: engine.KindCrate,
		X:    x,
		Y:    y,
		RX:   objectR,
		RY:   objectR,
	})
}

func placeAgent(l *Level, x, y float64) {
	a := l.Agent()
	a.X, a.Y = x, y
	a.VX, a.VY = 0, 0
}

// runUntil steps with code until done or the tick budget runs out.
func runUntil(l *Level, code, ticks int, stop func(engine.StepData) bool) (engine.StepData, bool) {
	var data engine.StepData
	for range ticks {
		data = l.Step(code)
		if stop(data) {
			return data, true
		}
	}
	return data, false
}

func isDone(d engine.StepData) bool { return d.Done }

func near(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}

func firstOf(w *engine.World, k engine.Kind) *engine.Entity {
	for _, e := range w.Entities {
		if e.Kind == k {
			return e
		}
	}
	return nil
}
