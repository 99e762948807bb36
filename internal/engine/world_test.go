package engine

import (
	"bytes"
	"math"
	"testing"
)

// testPolicy is a minimal level type: walls stop the agent, enemies bounce
// off walls and barriers, the goal tile ends the episode.
type testPolicy struct {
	gravity   float64
	spawnOnce bool
	spawned   bool
}

func (p *testPolicy) SetAction(w *World, code int) {
	w.ActionVX, w.ActionVY = code/3-1, code%3-1
}

func (p *testPolicy) UpdateAgentVelocity(w *World) {
	w.Agent.VX = 0.5 * float64(w.ActionVX)
	w.Agent.VY -= p.gravity
}

func (p *testPolicy) BlockedByTile(_ *World, m *Entity, t Tile, _ bool) bool {
	return m.Kind == KindAgent && t.IsWall()
}

func (p *testPolicy) BlockedByEntity(*World, *Entity, *Entity, bool) bool { return false }

func (p *testPolicy) Reflects(m *Entity, t Tile) bool {
	return m.Kind == KindEnemy && (t.IsWall() || t == TileBarrier)
}

func (p *testPolicy) HandleAgentCollision(w *World, o *Entity) {
	if o.Kind == KindSaw {
		w.Data.Done = true
	}
}

func (p *testPolicy) HandleGridCollision(w *World, t Tile, _, _ int) {
	if t == TileGoal {
		w.Data.Reward += 10
		w.Data.Done = true
		w.Data.LevelComplete = true
	}
}

func (p *testPolicy) AfterStep(w *World) {
	if p.spawnOnce && !p.spawned {
		p.spawned = true
		w.Add(&Entity{Kind: KindTrail, X: 1, Y: 1, VY: 0.01, RX: 0.3, RY: 0.2, ExpireTime: 3, Alpha: 0.5})
	}
}

func newTestWorld() *World {
	w := NewWorld(12, 10, 1)
	w.Grid.Fill(0, 0, 12, 1, TileWallTop)
	w.Grid.Fill(0, 0, 1, 10, TileWallMid)
	w.Grid.Fill(11, 0, 1, 10, TileWallMid)
	return w
}

func TestWorldAgentLandsFlush(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{gravity: 0.2}
	w.Agent.X, w.Agent.Y = 2.5, 5

	for range 30 {
		w.Step(4, p)
	}

	if w.Agent.VY != 0 {
		t.Errorf("VY = %v after landing, expected 0", w.Agent.VY)
	}
	bottom := w.Agent.Bottom()
	if bottom < 1-1e-5 || bottom > 1.01 {
		t.Errorf("agent bottom = %v, expected to rest on the floor at 1", bottom)
	}
}

func TestWorldAgentStoppedByWall(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{gravity: 0.2}
	w.Agent.X, w.Agent.Y = 8.5, 1.5

	for range 20 {
		w.Step(7, p)
	}

	right := w.Agent.X + w.Agent.RX
	if right > 11+1e-5 || right < 10.99 {
		t.Errorf("agent right edge = %v, expected flush against wall at 11", right)
	}
}

func TestWorldSmartStepReflectsOffWall(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{}
	w.Grid.Set(6, 1, TileBarrier)
	enemy := w.Add(&Entity{Kind: KindEnemy, X: 3.5, Y: 1.5, RX: 0.5, RY: 0.5, VX: 0.15, SmartStep: true})

	sawNegative := false
	for range 40 {
		w.Step(4, p)
		if enemy.VX < 0 {
			sawNegative = true
		}
		if enemy.X+enemy.RX > 6+1e-5 {
			t.Fatalf("enemy crossed the barrier: x = %v", enemy.X)
		}
	}
	if !sawNegative {
		t.Error("enemy never reflected off the barrier")
	}
}

func TestWorldSmartStepTurnsAtLedge(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{}
	w.Grid.Fill(4, 3, 3, 1, TileWallTop)
	enemy := w.Add(&Entity{Kind: KindEnemy, X: 5.5, Y: 4.5, RX: 0.5, RY: 0.5, VX: 0.15, SmartStep: true})

	turns := 0
	last := enemy.VX
	for range 100 {
		w.Step(4, p)
		if enemy.VX != last {
			turns++
			last = enemy.VX
		}
		if enemy.X < 4.4 || enemy.X > 6.6 || enemy.Y != 4.5 {
			t.Fatalf("enemy left its platform: (%v, %v)", enemy.X, enemy.Y)
		}
	}
	if turns < 2 {
		t.Errorf("enemy turned %d times, expected to patrol both ledges", turns)
	}
}

func TestWorldPendingSpawnAndExpiry(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{spawnOnce: true}
	w.Agent.X, w.Agent.Y = 2.5, 1.5

	w.Step(4, p)
	if w.Count(KindTrail) != 1 {
		t.Fatalf("trail count = %d after spawn tick, expected 1", w.Count(KindTrail))
	}
	trail := w.Entities[len(w.Entities)-1]
	alpha := trail.Alpha

	w.Step(4, p)
	w.Step(4, p)
	if trail.Alpha >= alpha {
		t.Errorf("alpha did not decay: %v -> %v", alpha, trail.Alpha)
	}
	if w.Count(KindTrail) != 1 {
		t.Fatalf("trail should still be alive, count = %d", w.Count(KindTrail))
	}

	w.Step(4, p)
	if w.Count(KindTrail) != 0 {
		t.Errorf("trail should have expired, count = %d", w.Count(KindTrail))
	}
	for _, e := range w.Entities {
		if e == trail {
			t.Error("expired trail still in entity list")
		}
	}
}

func TestWorldGoalContact(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{gravity: 0.2}
	w.Grid.Set(5, 1, TileGoal)
	w.Agent.X, w.Agent.Y = 2.5, 1.5

	var data StepData
	for range 20 {
		data = w.Step(7, p)
		if data.Done {
			break
		}
	}
	if !data.Done || !data.LevelComplete || data.Reward != 10 {
		t.Errorf("StepData = %+v, expected goal completion", data)
	}
}

func TestWorldTimeout(t *testing.T) {
	w := newTestWorld()
	w.Timeout = 3
	p := &testPolicy{gravity: 0.2}
	w.Agent.X, w.Agent.Y = 2.5, 1.5

	for i := 1; i <= 3; i++ {
		data := w.Step(4, p)
		if data.Done != (i == 3) {
			t.Errorf("tick %d: Done = %v", i, data.Done)
		}
		if i == 3 && !data.TimedOut {
			t.Error("expected TimedOut on the last tick")
		}
	}
}

func TestWorldSerializeRoundTrip(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{gravity: 0.2}
	w.Agent.X, w.Agent.Y = 2.5, 4
	w.Add(&Entity{Kind: KindEnemy, X: 6.5, Y: 1.5, RX: 0.5, RY: 0.5, VX: -0.15, SmartStep: true, Theme: 3})

	codes := []int{7, 7, 8, 4, 1, 1, 5, 7, 7, 7}
	for _, c := range codes[:5] {
		w.Step(c, p)
	}

	buf := NewWriteBuffer()
	w.Serialize(buf)

	restored := NewWorld(1, 1, 0)
	if err := restored.Deserialize(NewReadBuffer(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	for _, c := range codes[5:] {
		w.Step(c, p)
		restored.Step(c, p)
	}

	a, b := NewWriteBuffer(), NewWriteBuffer()
	w.Serialize(a)
	restored.Serialize(b)
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("restored world diverged from the original")
	}
	if math.Abs(w.Agent.X-restored.Agent.X) != 0 {
		t.Errorf("agent x differs: %v vs %v", w.Agent.X, restored.Agent.X)
	}
}

func TestWorldDeserializeCorrupt(t *testing.T) {
	w := NewWorld(4, 4, 1)
	if err := w.Deserialize(NewReadBuffer([]byte{1, 2, 3})); err == nil {
		t.Error("expected error for truncated stream")
	}
}

func TestWorldDeserializeErrorKeepsState(t *testing.T) {
	w := newTestWorld()
	p := &testPolicy{gravity: 0.2}
	w.Agent.X, w.Agent.Y = 2.5, 1.5
	w.Add(&Entity{Kind: KindSaw, X: 8.5, Y: 1.5, RX: 0.5, RY: 0.5})
	for _, c := range []int{7, 7, 8} {
		w.Step(c, p)
	}

	buf := NewWriteBuffer()
	w.Serialize(buf)
	before := buf.Bytes()

	badAgent := bytes.Clone(before)
	for i := len(badAgent) - 4; i < len(badAgent); i++ {
		badAgent[i] = 0xff
	}
	badGrid := bytes.Clone(before)
	// width sits after tick, sub steps, timeout, rng, action, reward, flags and next id
	off := 4 + 4 + 4 + 8 + 4 + 4 + 8 + 3 + 4
	badGrid[off+3] = 0x7f

	tests := []struct {
		name string
		data []byte
	}{
		{"missing agent", badAgent},
		{"huge grid", badGrid},
		{"truncated", before[:len(before)-9]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.Deserialize(NewReadBuffer(tt.data)); err == nil {
				t.Fatal("corrupt stream accepted")
			}
			after := NewWriteBuffer()
			w.Serialize(after)
			if !bytes.Equal(after.Bytes(), before) {
				t.Error("failed restore changed the world")
			}
			if w.Agent == nil {
				t.Fatal("agent lost")
			}
		})
	}

	w.Step(4, p)
	if w.Tick != 4 {
		t.Errorf("tick = %d after a failed restore, want 4", w.Tick)
	}
}

func TestKindTable(t *testing.T) {
	if KindTrail.Info().Motion != MotionFree {
		t.Error("trails should move freely")
	}
	if KindAgent.Info().Solid {
		t.Error("agent must not collide with itself")
	}
	if Kind(200).String() != "unknown" {
		t.Error("out of range kinds should be unknown")
	}
}
