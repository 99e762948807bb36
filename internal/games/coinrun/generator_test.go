package coinrun

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

func TestDefaultLayout(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	rep := l.Report()

	if rep.MaxDX != 7 || rep.MaxDY != 5 {
		t.Fatalf("envelope = (%d, %d), want (7, 5)", rep.MaxDX, rep.MaxDY)
	}
	if len(rep.Sections) != 6 || rep.Truncated() {
		t.Fatalf("sections = %d, truncated = %v", len(rep.Sections), rep.Truncated())
	}

	wantY := []int{4, 7, 4, 7, 4, 7}
	for i, s := range rep.Sections {
		if s.Pit {
			t.Errorf("section %d: unexpected pit", i)
		}
		if s.X != 5+7*i || s.DX != 7 || s.Y != wantY[i] {
			t.Errorf("section %d: x=%d dx=%d y=%d", i, s.X, s.DX, s.Y)
		}
		if !s.Enemy || s.Saw || s.Crates != 0 {
			t.Errorf("section %d: enemy=%v saw=%v crates=%d", i, s.Enemy, s.Saw, s.Crates)
		}
	}

	if rep.GoalX != 47 || rep.GoalY != 7 {
		t.Errorf("goal = (%d, %d), want (47, 7)", rep.GoalX, rep.GoalY)
	}

	w := l.World()
	if n := w.Grid.Count(engine.TileGoal); n != 1 {
		t.Errorf("goal tiles = %d, want 1", n)
	}
	if n := w.Count(engine.KindEnemy); n != 6 {
		t.Errorf("enemies = %d, want 6", n)
	}
	if n := w.Count(engine.KindSaw) + w.Count(engine.KindCrate); n != 0 {
		t.Errorf("saws and crates = %d, want 0", n)
	}
	for i, e := range enemies(w) {
		want := float64(9+7*i) + 0.5
		if e.X != want || e.Y != float64(wantY[i])+0.5 {
			t.Errorf("enemy %d at (%v, %v)", i, e.X, e.Y)
		}
	}

	g := l.Goal()
	if g == nil || g.X != 47.5 || g.Y != 7.5 {
		t.Errorf("goal marker = %+v", g)
	}
}

func enemies(w *engine.World) []*engine.Entity {
	var out []*engine.Entity
	for _, e := range w.Entities {
		if e.Kind == engine.KindEnemy {
			out = append(out, e)
		}
	}
	return out
}

func TestEmptySectionsGoalAtStart(t *testing.T) {
	l := emptyLevel(t)
	rep := l.Report()
	if rep.GoalX != 5 || rep.GoalY != 1 {
		t.Fatalf("goal = (%d, %d), want (5, 1)", rep.GoalX, rep.GoalY)
	}
	g := l.World().Grid
	for x := 6; x < g.Width(); x++ {
		if g.Get(x, 1) != engine.TileWallMid {
			t.Fatalf("column %d is not sealed", x)
		}
	}
}

func TestLavaPitRows(t *testing.T) {
	tests := []struct {
		height float64
		rows   int
	}{
		{0, 1},
		{0.7, 2},
		{1, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.height), func(t *testing.T) {
			l := newTestLevel(t, MustParameters(3, HazardLava, 0, []SectionParameters{pitSection(tt.height)}), nil)
			rep := l.Report()
			sec := rep.Sections[0]
			if !sec.Pit || sec.PitWidth != 7 || sec.LavaRows != tt.rows {
				t.Fatalf("section = %+v", sec)
			}

			g := l.World().Grid
			for x := 6; x <= 12; x++ {
				for y := 1; y <= tt.rows; y++ {
					want := engine.TileLavaMid
					if y == tt.rows {
						want = engine.TileLavaTop
					}
					if got := g.Get(x, y); got != want {
						t.Errorf("(%d, %d) = %v, want %v", x, y, got, want)
					}
				}
				if got := g.Get(x, tt.rows+1); got.IsLava() {
					t.Errorf("lava above row %d at column %d", tt.rows, x)
				}
			}
			if got := g.Count(engine.TileLavaTop) + g.Count(engine.TileLavaMid); got != 7*tt.rows {
				t.Errorf("lava tiles = %d, want %d", got, 7*tt.rows)
			}

			for x := 8; x <= 10; x++ {
				if g.Get(x, 4) != engine.TileWallTop {
					t.Errorf("platform missing at (%d, 4)", x)
				}
			}
			if g.Get(7, 4).IsWall() || g.Get(11, 4).IsWall() {
				t.Error("platform wider than three tiles")
			}

			if g.Get(5, 4) != engine.TileWallTop || g.Get(13, 4) != engine.TileWallTop {
				t.Error("pit edges missing")
			}
			if rep.GoalX != 14 || rep.GoalY != 5 {
				t.Errorf("goal = (%d, %d), want (14, 5)", rep.GoalX, rep.GoalY)
			}
		})
	}
}

func TestPitHazards(t *testing.T) {
	saws := newTestLevel(t, MustParameters(3, HazardSaw, 0, []SectionParameters{pitSection(0.7)}), nil)
	if n := saws.World().Count(engine.KindSaw); n != 7 {
		t.Errorf("saw pit: %d saws, want 7", n)
	}

	mobs := newTestLevel(t, MustParameters(3, HazardEnemy, 0, []SectionParameters{pitSection(0.7)}), nil)
	if n := mobs.World().Count(engine.KindEnemy); n != 7 {
		t.Errorf("enemy pit: %d enemies, want 7", n)
	}
	for _, e := range enemies(mobs.World()) {
		if e.Y != 1.5 || !e.SmartStep {
			t.Errorf("pit enemy at y=%v smart=%v", e.Y, e.SmartStep)
		}
	}
}

func TestCrateStack(t *testing.T) {
	l := newTestLevel(t, MustParameters(1, HazardSaw, 0, []SectionParameters{crateSection()}), nil)
	sec := l.Report().Sections[0]
	want := 2 * (DefaultSection().PileHeight + 1)
	if sec.Crates != want || l.World().Count(engine.KindCrate) != want {
		t.Fatalf("crates = %d (report %d), want %d", l.World().Count(engine.KindCrate), sec.Crates, want)
	}
	for _, e := range l.World().Entities {
		if e.Kind == engine.KindCrate && e.X != 7.5 {
			t.Errorf("crate at x=%v, want 7.5", e.X)
		}
	}
}

func TestGenerationTruncates(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), func(o *Options) { o.Width = 20 })
	rep := l.Report()
	if !rep.Truncated() || len(rep.Sections) != 0 {
		t.Fatalf("sections = %d, truncated = %v", len(rep.Sections), rep.Truncated())
	}
	if rep.GoalX != 5 || rep.GoalY != 1 {
		t.Errorf("goal = (%d, %d), want (5, 1)", rep.GoalX, rep.GoalY)
	}
}

// climbSection is a flat difficulty 3 section that steps up by DY+2 and
// carries one three-crate pile.
func climbSection(dy int) SectionParameters {
	s := DefaultSection()
	s.DY = dy
	s.InvertDY = false
	s.DXCoefficient = 0
	s.Pit = 0
	s.SawProbability = 9
	s.EnemyProbability = 9
	s.CratePile = true
	s.PileHeight = 2
	return s
}

func TestWorldHeightFitsHighestGround(t *testing.T) {
	minH := MinHeight(DefaultPhysics())
	if minH != 30 {
		t.Errorf("MinHeight = %d, want 30", minH)
	}

	// Ground rows 6, 11, 16, 19, then 24: the highest reachable with max_dy 5.
	p := MustParameters(3, HazardSaw, 0, []SectionParameters{
		climbSection(3), climbSection(3), climbSection(3), climbSection(1), climbSection(3),
	})

	for _, h := range []int{10, minH - 1} {
		opts := DefaultOptions()
		opts.Height = h
		_, err := NewLevel(p, opts)
		var verr ValidationError
		if !errors.As(err, &verr) || verr.Code != "WORLD_SIZE" {
			t.Errorf("height %d: err = %v, want WORLD_SIZE", h, err)
		}
	}

	l := newTestLevel(t, p, func(o *Options) { o.Height = minH })
	rep := l.Report()
	if rep.GoalY != forceInvertY-1+rep.MaxDY {
		t.Errorf("goal y = %d, want %d", rep.GoalY, forceInvertY-1+rep.MaxDY)
	}
	checkLevelInvariants(t, "climb", l)

	g := l.World().Grid
	if x, y, ok := g.Find(engine.TileGoal); !ok || x != rep.GoalX || y != rep.GoalY {
		t.Errorf("goal tile at (%d, %d) ok=%v, report (%d, %d)", x, y, ok, rep.GoalX, rep.GoalY)
	}
	for _, e := range l.World().Entities {
		if top := e.Y + e.RY; top > float64(g.Height()-1) {
			t.Errorf("%v at y=%v pokes into the ceiling", e.Kind, e.Y)
		}
	}
	if n := l.World().Count(engine.KindCrate); n == 0 {
		t.Error("climb level placed no crates")
	}
}

func TestSampledLevelsRespectEnvelope(t *testing.T) {
	for dif := 1; dif <= 3; dif++ {
		for hz := HazardLava; hz <= HazardEnemy; hz++ {
			for seed := range uint64(30) {
				p := SampleSeed(seed, dif, hz)
				l := newTestLevel(t, p, nil)
				name := fmt.Sprintf("difficulty %d %v seed %d", dif, hz, seed)
				checkLevelInvariants(t, name, l)
			}
		}
	}
}

func checkLevelInvariants(t *testing.T, name string, l *Level) {
	t.Helper()
	rep := l.Report()
	g := l.World().Grid

	for _, s := range rep.Sections {
		if s.Pit && s.PitWidth > rep.MaxDX {
			t.Errorf("%s: section %d pit width %d > %d", name, s.Index, s.PitWidth, rep.MaxDX)
		}
		if s.DY > rep.MaxDY || -s.DY > rep.MaxDY {
			t.Errorf("%s: section %d dy %d exceeds %d", name, s.Index, s.DY, rep.MaxDY)
		}
		if s.Y < 1 {
			t.Errorf("%s: section %d below floor", name, s.Index)
		}
	}

	if n := g.Count(engine.TileGoal); n != 1 {
		t.Errorf("%s: %d goal tiles", name, n)
	}

	for x := range g.Width() {
		if !g.Get(x, 0).IsWall() || !g.Get(x, g.Height()-1).IsWall() {
			t.Errorf("%s: ring open at column %d", name, x)
			return
		}
	}
	for y := range g.Height() {
		if !g.Get(0, y).IsWall() || !g.Get(g.Width()-1, y).IsWall() {
			t.Errorf("%s: ring open at row %d", name, y)
			return
		}
	}
}

func TestDebugModes(t *testing.T) {
	pit := MustParameters(3, HazardLava, 0, []SectionParameters{pitSection(0.7)})
	l := newTestLevel(t, pit, func(o *Options) { o.DebugMode = DebugNoPits })
	g := l.World().Grid
	if l.Report().Sections[0].Pit || g.Count(engine.TileLavaTop)+g.Count(engine.TileLavaMid) != 0 {
		t.Error("no-pits mode generated a pit")
	}

	l = newTestLevel(t, DefaultParameters(), func(o *Options) { o.DebugMode = DebugNoDY })
	for _, s := range l.Report().Sections {
		if s.DY != 0 || s.Y != 1 {
			t.Errorf("no-dy mode: section %d dy=%d y=%d", s.Index, s.DY, s.Y)
		}
	}

	crates := MustParameters(1, HazardSaw, 0, []SectionParameters{crateSection()})
	l = newTestLevel(t, crates, func(o *Options) { o.DebugMode = DebugNoCrates })
	if n := l.World().Count(engine.KindCrate); n != 0 {
		t.Errorf("no-crates mode placed %d crates", n)
	}
}

func TestEasyDistribution(t *testing.T) {
	p := MustParameters(3, HazardSaw, 3, DefaultSections())

	hard := newTestLevel(t, p, nil)
	if hard.WallTheme() != 3 {
		t.Errorf("hard wall theme = %d, want 3", hard.WallTheme())
	}

	easy := newTestLevel(t, p, func(o *Options) { o.Distribution = DistributionEasy })
	if n := easy.World().Count(engine.KindEnemy); n != 0 {
		t.Errorf("easy mode spawned %d enemies", n)
	}
	if easy.WallTheme() != 0 || easy.Agent().Theme != 0 {
		t.Errorf("easy themes: wall=%d agent=%d", easy.WallTheme(), easy.Agent().Theme)
	}
	if easy.Report().GoalX != hard.Report().GoalX {
		t.Error("easy mode changed the layout")
	}
}

func TestResetIsIdempotent(t *testing.T) {
	l := newTestLevel(t, DefaultParameters(), nil)
	l.Reset(42)
	first := l.Hash()

	for range 20 {
		l.Step(codeRight)
	}
	l.Reset(42)
	if l.Hash() != first {
		t.Error("reset with the same seed produced a different state")
	}

	l.Reset(43)
	if l.Report().GoalX != 47 {
		t.Error("layout depends on the episode seed")
	}
}
