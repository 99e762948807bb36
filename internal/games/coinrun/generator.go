package coinrun

import (
	"math"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// Generation layout constants.
const (
	startX      = 5
	startY      = 1
	sectionRoom = 15
	// Cursor heights at which vertical steps flip downward.
	forceInvertY = 20
	allowInvertY = 5
	// Crates in the tallest pile, and rows the agent spans standing on it.
	maxPileHeight = 3
	agentRoom     = 2
)

// SectionReport records what one section placed.
type SectionReport struct {
	Index    int
	Pit      bool
	X        int // left edge of the section
	Y        int // ground height after the vertical step
	DX       int
	DY       int
	PitWidth int
	LavaRows int
	Platform bool
	Saw      bool
	Enemy    bool
	Crates   int
}

// Kind names the section shape for logs and views.
func (s SectionReport) Kind() string {
	if s.Pit {
		return "pit"
	}
	return "flat"
}

// Report summarizes a generation pass.
type Report struct {
	Sections []SectionReport
	// Requested is how many section records the configuration supplied.
	Requested    int
	GoalX, GoalY int
	MaxDX, MaxDY int
}

// Truncated reports whether the grid ran out of room before all sections.
func (r Report) Truncated() bool {
	return len(r.Sections) < r.Requested
}

func (l *Level) initFloorAndWalls() {
	g := l.world.Grid
	w, h := g.Width(), g.Height()
	g.Fill(0, 0, w, 1, engine.TileWallTop)
	g.Fill(0, 0, 1, h, engine.TileWallMid)
	g.Fill(w-1, 0, 1, h, engine.TileWallMid)
	g.Fill(0, h-1, w, 1, engine.TileWallMid)
}

// generate walks the section records left to right, then seals the level
// with the goal and a solid wall to the right edge.
func (l *Level) generate() Report {
	g := l.world.Grid
	dif := l.params.Difficulty
	maxDX, maxDY := l.opts.Physics.Envelope()

	rep := Report{
		Requested: len(l.params.Sections),
		MaxDX:     maxDX,
		MaxDY:     maxDY,
	}

	allowPit := l.opts.DebugMode&DebugNoPits == 0
	allowCrate := l.opts.DebugMode&DebugNoCrates == 0
	allowDY := l.opts.DebugMode&DebugNoDY == 0
	allowMonsters := !l.easy()
	pitThreshold := dif

	currX, currY := startX, startY

	for i, s := range l.params.Sections {
		if currX+sectionRoom >= g.Width() {
			l.logger.Debug("out of room", "section", i, "x", currX)
			break
		}

		dy := s.DY + 1 + dif/3
		if !allowDY {
			dy = 0
		}
		dy = min(dy, maxDY)

		if currY >= forceInvertY {
			dy = -dy
		} else if currY >= allowInvertY && s.InvertDY {
			dy = -dy
		}

		dx := s.DXCoefficient + 3 + dif/3
		currY = max(currY+dy, 1)

		sec := SectionReport{Index: i, X: currX, Y: currY, DX: dx, DY: dy}
		usePit := allowPit && dx > 7 && currY > 3 && s.Pit >= pitThreshold
		if usePit {
			l.buildPit(&sec, s, maxDX)
		} else {
			l.buildFlat(&sec, s, maxDX, allowCrate, allowMonsters)
		}

		if !g.Get(currX-1, currY).IsWall() {
			g.Set(currX-1, currY, engine.TileBarrier)
		}
		currX += dx
		g.Set(currX, currY, engine.TileBarrier)

		l.logger.Debug("section",
			"index", i,
			"kind", sec.Kind(),
			"x", sec.X,
			"y", sec.Y,
			"dx", dx,
			"dy", dy,
			"pit_width", sec.PitWidth,
		)
		rep.Sections = append(rep.Sections, sec)
	}

	g.Set(currX, currY, engine.TileGoal)
	l.fillGround(currX, 0, 1, currY)
	g.Fill(currX+1, 0, g.Width()-currX-1, g.Height(), engine.TileWallMid)

	l.goal = l.world.Add(&engine.Entity{
		Kind: engine.KindGoal,
		X:    float64(currX) + 0.5,
		Y:    float64(currY) + 0.5,
		RX:   objectR,
		RY:   objectR,
	})
	rep.GoalX, rep.GoalY = currX, currY

	l.logger.Debug("level generated",
		"sections", len(rep.Sections),
		"requested", rep.Requested,
		"goal_x", currX,
		"goal_y", currY,
	)
	return rep
}

func (l *Level) buildPit(sec *SectionReport, s SectionParameters, maxDX int) {
	x, y, dx := sec.X, sec.Y, sec.DX

	x1 := s.PitX1 + 1
	x2 := s.PitX2 + 1
	pitWidth := dx - x1 - x2
	if pitWidth > maxDX {
		pitWidth = maxDX
		x2 = dx - x1 - pitWidth
	}

	l.fillGround(x, 0, x1, y)
	l.fillGround(x+dx-x2, 0, x2, y)

	sec.Pit = true
	sec.PitWidth = pitWidth

	switch l.params.Hazard {
	case HazardLava:
		rows := scaleRandom(s.PitLavaHeight, y-3) + 1
		l.fillLava(x+x1, 1, pitWidth, rows)
		sec.LavaRows = rows
	case HazardSaw:
		for i := range pitWidth {
			l.createSaw(x+x1+i, 1)
		}
	case HazardEnemy:
		for i := range pitWidth {
			l.createEnemy(x+x1+i, 1, s.EnemyDirection)
		}
	}

	if pitWidth > 4 {
		var x3, w1 int
		switch pitWidth {
		case 5:
			x3 = 1 + s.PitPlatformX3
			w1 = 1 + s.PitPlatformW1
		case 6:
			x3 = 2 + s.PitPlatformX3
			w1 = 1 + s.PitPlatformW1
		default:
			x3 = 2 + s.PitPlatformX3
			x4 := 2 + s.PitPlatformW1
			w1 = pitWidth - x3 - x4
		}
		l.fillGround(x+x1+x3, y-1, w1, 1)
		sec.Platform = true
	}
}

// buildFlat fills a flat section and places its saw, enemy and crate piles.
// Crates never share a column with the saw or the enemy.
func (l *Level) buildFlat(sec *SectionReport, s SectionParameters, maxDX int, allowCrate, allowMonsters bool) {
	x, y, dx := sec.X, sec.Y, sec.DX
	dif := l.params.Difficulty

	l.fillGround(x, 0, dx, y)

	sawX, enemyX := -1, -1

	if s.SawProbability < 2*dif && dx > 3 {
		sawX = x + scaleRandom(s.SawPos, dx-2) + 1
		l.createSaw(sawX, y)
		sec.Saw = true
	}

	if s.EnemyProbability < dif && dx > 3 && maxDX >= 4 && allowMonsters {
		enemyX = x + scaleRandom(s.EnemyPos, dx-2) + 1
		l.createEnemy(enemyX, y, s.EnemyDirection)
		sec.Enemy = true
	}

	if !allowCrate || !s.CratePile {
		return
	}
	// Both passes land on the same column, so a placed pile is always
	// doubled; every crate still draws its own theme.
	for range 2 {
		crateX := x + scaleRandom(s.CratePos, dx-2) + 1
		if crateX == sawX || crateX == enemyX {
			continue
		}
		for j := range s.PileHeight + 1 {
			l.createCrate(crateX, y+j)
			sec.Crates++
		}
	}
}

func (l *Level) fillGround(x, y, dx, dy int) {
	l.world.Grid.FillTop(x, y, dx, dy, engine.TileWallMid, engine.TileWallTop)
}

func (l *Level) fillLava(x, y, dx, dy int) {
	l.world.Grid.FillTop(x, y, dx, dy, engine.TileLavaMid, engine.TileLavaTop)
}

func (l *Level) createSaw(x, y int) {
	l.world.Add(&engine.Entity{
		Kind: engine.KindSaw,
		X:    float64(x) + 0.5,
		Y:    float64(y) + 0.5,
		RX:   objectR,
		RY:   objectR,
	})
}

func (l *Level) createEnemy(x, y, direction int) {
	l.world.Add(&engine.Entity{
		Kind:      engine.KindEnemy,
		X:         float64(x) + 0.5,
		Y:         float64(y) + 0.5,
		RX:        objectR,
		RY:        objectR,
		VX:        enemySpeed * float64(direction*2-1),
		SmartStep: true,
		RenderZ:   1,
		Theme:     l.theme(NumEnemyThemes),
	})
}

func (l *Level) createCrate(x, y int) {
	l.world.Add(&engine.Entity{
		Kind:  engine.KindCrate,
		X:     float64(x) + 0.5,
		Y:     float64(y) + 0.5,
		RX:    objectR,
		RY:    objectR,
		Theme: l.theme(NumCrateThemes),
	})
}

// theme draws a cosmetic variant from the world RNG; easy mode pins it to 0.
func (l *Level) theme(n int) int {
	if l.easy() {
		return 0
	}
	return l.world.RNG.Intn(n)
}

func scaleRandom(r float64, scale int) int {
	return int(math.Round(r * float64(scale)))
}
