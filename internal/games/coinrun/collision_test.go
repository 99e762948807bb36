package coinrun

import (
	"testing"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

const restY = 1 + agentRY

func TestWalkRightReachesGoal(t *testing.T) {
	l := emptyLevel(t)

	data, ok := runUntil(l, codeRight, 100, isDone)
	if !ok {
		t.Fatalf("episode did not end; agent at x=%v", l.Agent().X)
	}
	if !data.LevelComplete || data.Reward != GoalReward {
		t.Errorf("final step = %+v", data)
	}
	if l.Outcome() != OutcomeGoal || l.TotalReward() != GoalReward {
		t.Errorf("outcome = %v, reward = %v", l.Outcome(), l.TotalReward())
	}

	// Stepping a finished episode changes nothing and pays nothing.
	ticks := l.Ticks()
	after := l.Step(codeRight)
	if !after.Done || after.Reward != 0 || l.Ticks() != ticks {
		t.Errorf("step after end = %+v, ticks %d -> %d", after, ticks, l.Ticks())
	}
}

func TestAgentRestsOnFloor(t *testing.T) {
	l := emptyLevel(t)
	for range 5 {
		l.Step(codeNone)
	}
	a := l.Agent()
	if !near(a.Y, restY, 1e-6) || a.VY != 0 || a.VX != 0 {
		t.Errorf("agent drifted to (%v, %v) v=(%v, %v)", a.X, a.Y, a.VX, a.VY)
	}
	if !l.HasSupport() {
		t.Error("agent on the floor has no support")
	}
	if img := l.ImageFor(a); img != ImagePlayerStand {
		t.Errorf("image = %v, want standing", img)
	}
}

func TestJumpArc(t *testing.T) {
	l := emptyLevel(t)
	_, maxDY := l.Options().Physics.Envelope()

	l.Step(codeJump)
	peak := l.Agent().Y
	for range 40 {
		l.Step(codeNone)
		peak = max(peak, l.Agent().Y)
	}

	// 1.5 + 1.3 + ... + 0.1
	if !near(peak, restY+6.4, 1e-6) {
		t.Errorf("peak = %v, want %v", peak, restY+6.4)
	}
	if peak-agentRY < float64(maxDY)+1 {
		t.Errorf("jump cannot clear a step of %d", maxDY)
	}
	if !near(l.Agent().Y, restY, 1e-3) || !l.HasSupport() {
		t.Errorf("agent did not land: y=%v support=%v", l.Agent().Y, l.HasSupport())
	}
}

func TestJumpNeedsSupport(t *testing.T) {
	l := emptyLevel(t)
	placeAgent(l, 2.5, 10)

	l.Step(codeJump)
	if l.Agent().VY > 0 {
		t.Errorf("mid-air jump accepted: vy=%v", l.Agent().VY)
	}
	if l.World().ActionVY != 0 {
		t.Errorf("action vy = %d, want 0", l.World().ActionVY)
	}
}

func TestWallStopsAgent(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	for range 60 {
		l.Step(codeRight)
	}
	a := l.Agent()
	// Section 0 starts at column 5 with ground four tiles high.
	if a.X+a.RX > 5+1e-6 || a.X+a.RX < 4.99 {
		t.Errorf("agent right edge = %v, want flush with 5", a.X+a.RX)
	}
	if l.Done() {
		t.Errorf("episode ended: %v", l.Cause())
	}
}

func TestLavaKills(t *testing.T) {
	l := newTestLevel(t, MustParameters(3, HazardLava, 0, []SectionParameters{pitSection(0.7)}), nil)
	placeAgent(l, 6.6, 8)

	data, ok := runUntil(l, codeNone, 50, isDone)
	if !ok {
		t.Fatalf("agent survived the lava at y=%v", l.Agent().Y)
	}
	if data.Reward != 0 || data.LevelComplete {
		t.Errorf("lava step = %+v", data)
	}
	if l.Outcome() != OutcomeDeath || l.Cause() != "lava" {
		t.Errorf("outcome = %v, cause = %q", l.Outcome(), l.Cause())
	}
	if l.TotalReward() != 0 {
		t.Errorf("reward = %v", l.TotalReward())
	}
}

func TestSawKills(t *testing.T) {
	l := newTestLevel(t, MustParameters(3, HazardSaw, 0, []SectionParameters{pitSection(0.7)}), nil)
	placeAgent(l, 6.6, 8)

	if _, ok := runUntil(l, codeNone, 50, isDone); !ok {
		t.Fatal("agent survived the saw pit")
	}
	if l.Outcome() != OutcomeDeath || l.Cause() != "saw" {
		t.Errorf("outcome = %v, cause = %q", l.Outcome(), l.Cause())
	}
}

func TestEnemyKills(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	e := firstOf(l.World(), engine.KindEnemy)
	placeAgent(l, e.X, e.Y+agentRY-objectR)

	data := l.Step(codeNone)
	if !data.Done || l.Cause() != "enemy" {
		t.Errorf("step = %+v, cause = %q", data, l.Cause())
	}
}

func TestCrateLandingFromAbove(t *testing.T) {
	l := emptyLevel(t)
	crate := addCrate(l, 3.5, 1.5)
	placeAgent(l, 3.5, 5)

	for range 30 {
		l.Step(codeNone)
	}
	a := l.Agent()
	top := crate.Y + crate.RY + a.RY
	if !near(a.Y, top, 1e-3) {
		t.Fatalf("agent y = %v, want resting on crate at %v", a.Y, top)
	}
	l.Step(codeNone)
	if !l.HasSupport() || a.VY != 0 {
		t.Errorf("support = %v, vy = %v", l.HasSupport(), a.VY)
	}
	if !l.State().IsOnCrate {
		t.Error("crate latch not set after resting step")
	}
}

func TestCrateBlocksOnlyFallingAgent(t *testing.T) {
	l := emptyLevel(t)
	w := l.World()
	crate := addCrate(l, 3.5, 1.5)
	a := l.Agent()
	placeAgent(l, 3.5, crate.Y+crate.RY+a.RY)
	l.lastAgentY = a.Y

	for _, tc := range []struct {
		vy   float64
		want bool
	}{
		{vy: 0.2, want: false},
		{vy: 0, want: false},
		{vy: -0.2, want: true},
	} {
		a.VY = tc.vy
		l.isOnCrate = false
		if got := l.BlockedByEntity(w, a, crate, false); got != tc.want {
			t.Errorf("vy %v: blocked = %v, want %v", tc.vy, got, tc.want)
		}
		if l.isOnCrate != tc.want {
			t.Errorf("vy %v: crate latch = %v", tc.vy, l.isOnCrate)
		}
	}

	a.VY = -0.2
	if l.BlockedByEntity(w, a, crate, true) {
		t.Error("crate blocked a horizontal move")
	}
}

func TestCrateAscendThenLand(t *testing.T) {
	l := emptyLevel(t)
	crate := addCrate(l, 1.5, 3.5)

	l.Step(codeJump)
	a := l.Agent()
	if a.VY <= 0 || !a.Box().Overlaps(crate.Box()) {
		t.Fatalf("rising agent blocked by crate: y=%v vy=%v", a.Y, a.VY)
	}

	for range 40 {
		l.Step(codeNone)
	}
	top := crate.Y + crate.RY + a.RY
	if !near(a.Y, top, 1e-3) {
		t.Errorf("agent y = %v, want landed on crate at %v", a.Y, top)
	}
}

func TestCratePassSideways(t *testing.T) {
	l := emptyLevel(t)
	crate := addCrate(l, 3.5, 1.5)

	overlapped := false
	data, ok := runUntil(l, codeRight, 100, func(d engine.StepData) bool {
		if l.Agent().Box().Overlaps(crate.Box()) {
			overlapped = true
		}
		return d.Done
	})
	if !ok || !data.LevelComplete {
		t.Fatalf("agent did not reach the goal: %+v", data)
	}
	if !overlapped {
		t.Error("agent never passed through the crate")
	}
	if !near(l.Agent().Y, restY, 1e-3) {
		t.Errorf("agent climbed the crate: y=%v", l.Agent().Y)
	}
}

func TestCrateDuckThrough(t *testing.T) {
	l := emptyLevel(t)
	crate := addCrate(l, 3.5, 1.5)
	placeAgent(l, 3.5, 4)

	for range 20 {
		l.Step(codeNone)
	}
	if !near(l.Agent().Y, crate.Y+crate.RY+agentRY, 1e-3) {
		t.Fatalf("agent not on crate: y=%v", l.Agent().Y)
	}

	for range 15 {
		l.Step(codeDuck)
	}
	if !near(l.Agent().Y, restY, 1e-3) {
		t.Errorf("agent y = %v, want dropped to the floor", l.Agent().Y)
	}
}

func TestEnemyTrails(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	for range 20 {
		l.Step(codeNone)
	}
	w := l.World()
	if n, want := w.Count(engine.KindTrail), 6*trailLife; n != want {
		t.Errorf("trails = %d, want %d", n, want)
	}
	for _, e := range w.Entities {
		if e.Kind == engine.KindTrail && (e.Alpha <= 0 || e.Alpha > 0.5 || e.ExpireTime > trailLife) {
			t.Errorf("trail alpha=%v expire=%d", e.Alpha, e.ExpireTime)
		}
	}
}

func TestEnemiesStayOnTheirSection(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	start := enemies(l.World())
	bounds := make([][2]float64, len(start))
	for i := range start {
		x := float64(5 + 7*i)
		bounds[i] = [2]float64{x, x + 7}
	}
	// The last enemy may walk onto the goal column.
	bounds[len(bounds)-1][1]++
	// Ledge probes sit just inside the leading corner.
	const slack = 0.02

	for range 300 {
		l.Step(codeNone)
		for i, e := range enemies(l.World()) {
			if e.X-e.RX < bounds[i][0]-slack || e.X+e.RX > bounds[i][1]+slack {
				t.Fatalf("enemy %d left its section: x=%v", i, e.X)
			}
		}
	}
}

func TestTimeout(t *testing.T) {
	l := newTestLevel(t, MustParameters(1, HazardSaw, 0, nil), func(o *Options) { o.Timeout = 5 })
	var data engine.StepData
	for range 5 {
		data = l.Step(codeNone)
	}
	if !data.Done || !data.TimedOut || data.LevelComplete {
		t.Fatalf("step = %+v", data)
	}
	if l.Outcome() != OutcomeTimeout || l.TotalReward() != 0 {
		t.Errorf("outcome = %v, reward = %v", l.Outcome(), l.TotalReward())
	}
}

func TestActionCodeClamped(t *testing.T) {
	l := emptyLevel(t)
	l.Step(99)
	if l.World().ActionVX != 1 || l.World().ActionVY != 1 {
		t.Errorf("action = (%d, %d), want (1, 1)", l.World().ActionVX, l.World().ActionVY)
	}
	l.Step(-3)
	if l.World().ActionVX != -1 || l.World().ActionVY != -1 {
		t.Errorf("action = (%d, %d), want (-1, -1)", l.World().ActionVX, l.World().ActionVY)
	}
}
