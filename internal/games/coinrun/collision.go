package coinrun

import (
	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// Support probes sit just inside the agent's sides and just below its feet.
const (
	supportInset = 0.01
	supportDrop  = 0.01
	// landingSlack absorbs rounding between the overlap test and the
	// crate-top comparison.
	landingSlack = 1e-9
)

func canSupport(t engine.Tile) bool {
	return t.IsWall()
}

// SetAction decodes the action code, refreshes support and orientation and
// clears the one-tick crate latch. A jump without support is dropped.
func (l *Level) SetAction(w *engine.World, code int) {
	vx, vy := core.DecodeAction(code)

	if vx > 0 {
		l.facingRight = true
	}
	if vx < 0 {
		l.facingRight = false
	}

	a := w.Agent
	footY := a.Y - (a.RY + supportDrop)
	below1 := w.Grid.At(a.X-(a.RX-supportInset), footY)
	below2 := w.Grid.At(a.X+(a.RX-supportInset), footY)

	l.hasSupport = (l.isOnCrate || canSupport(below1) || canSupport(below2)) && a.VY == 0
	l.isOnCrate = false

	if vy == 1 && !l.hasSupport {
		vy = 0
	}
	w.ActionVX, w.ActionVY = vx, vy
}

// UpdateAgentVelocity applies the physics stepper to the agent.
func (l *Level) UpdateAgentVelocity(w *engine.World) {
	ph := l.opts.Physics
	ph.Gravity = l.gravity
	ph.AirControl = l.airControl

	a := w.Agent
	a.VX, a.VY = ph.Velocity(a.VX, a.VY, w.ActionVX, w.ActionVY, l.hasSupport)
}

// BlockedByTile stops the agent at walls. Barriers and hazards never block it.
func (l *Level) BlockedByTile(_ *engine.World, mover *engine.Entity, t engine.Tile, _ bool) bool {
	return mover.Kind == engine.KindAgent && t.IsWall()
}

// BlockedByEntity makes crates one-way platforms: they stop the agent only
// while it is falling from at or above the crate top, and never while it
// is ducking.
func (l *Level) BlockedByEntity(w *engine.World, mover, target *engine.Entity, horizontal bool) bool {
	if mover.Kind != engine.KindAgent || target.Kind != engine.KindCrate || horizontal {
		return false
	}
	if mover.VY >= 0 {
		return false
	}
	if w.ActionVY < 0 {
		return false
	}
	if l.lastAgentY < target.Y+target.RY+mover.RY-landingSlack {
		return false
	}

	l.isOnCrate = true
	return true
}

// Reflects turns enemies around at walls and barriers.
func (l *Level) Reflects(mover *engine.Entity, t engine.Tile) bool {
	return mover.Kind == engine.KindEnemy && (t.IsWall() || t == engine.TileBarrier)
}

// HandleAgentCollision kills the agent on contact with an enemy or a saw.
func (l *Level) HandleAgentCollision(w *engine.World, other *engine.Entity) {
	switch other.Kind {
	case engine.KindEnemy, engine.KindSaw:
		if !w.Data.Done {
			l.cause = other.Kind.String()
		}
		w.Data.Done = true
	}
}

// HandleGridCollision ends the episode on the goal or on lava.
func (l *Level) HandleGridCollision(w *engine.World, t engine.Tile, _, _ int) {
	switch {
	case t == engine.TileGoal:
		if !w.Data.LevelComplete {
			w.Data.Reward += GoalReward
		}
		w.Data.Done = true
		w.Data.LevelComplete = true
	case t.IsLava():
		if !w.Data.Done {
			l.cause = "lava"
		}
		w.Data.Done = true
	}
}

// AfterStep updates orientation, drops enemy trails and records the agent
// height for the next crate landing test.
func (l *Level) AfterStep(w *engine.World) {
	a := w.Agent
	if w.ActionVX > 0 {
		a.IsReflected = false
	}
	if w.ActionVX < 0 {
		a.IsReflected = true
	}

	for _, e := range w.Entities {
		if e.Kind != engine.KindEnemy || e.Erased() {
			continue
		}
		w.Add(&engine.Entity{
			Kind:       engine.KindTrail,
			X:          e.X,
			Y:          e.Y - e.RY*0.5,
			VY:         0.01,
			RX:         0.3,
			RY:         0.2,
			ExpireTime: trailLife,
			Alpha:      0.5,
		})
		e.IsReflected = e.VX > 0
	}

	l.lastAgentY = a.Y
}

const trailLife = 8
