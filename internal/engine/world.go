// Package engine is the host simulation a level type plugs into: a tile
// grid, an entity list, a seeded RNG and a fixed-tick stepping loop driven
// through a Policy.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// Defaults for the host loop.
const (
	DefaultSubSteps = 4
	DefaultTimeout  = 1000
	refineSteps     = 10
	ledgeProbe      = 0.01
)

// ErrCorruptState is returned when a state stream decodes to impossible values.
var ErrCorruptState = errors.New("engine: corrupt state stream")

// StepData is the outcome of a single tick.
type StepData struct {
	Reward        float64
	Done          bool
	LevelComplete bool
	// TimedOut is set when the tick ceiling ended the episode.
	TimedOut bool
}

// World owns all mutable simulation state of one instance. Instances share
// nothing, so separate worlds may be stepped on separate goroutines.
type World struct {
	Grid     *Grid
	Entities []*Entity
	Agent    *Entity
	RNG      *RNG

	Tick     int
	SubSteps int
	// Timeout ends the episode after this many ticks; zero disables it.
	Timeout int

	// Decoded intents for the current tick, each in {-1, 0, 1}.
	ActionVX int
	ActionVY int

	Data StepData

	nextID   int
	pending  []*Entity
	stepping bool
}

// NewWorld creates a world with an empty grid of the given size.
func NewWorld(width, height int, seed uint64) *World {
	w := &World{
		Grid:     NewGrid(width, height),
		RNG:      NewRNG(seed),
		SubSteps: DefaultSubSteps,
		Timeout:  DefaultTimeout,
	}
	w.Reset(seed)
	return w
}

// Reset clears the grid and entities, reseeds the RNG and creates a fresh agent.
func (w *World) Reset(seed uint64) {
	w.Grid.Clear()
	w.Entities = w.Entities[:0]
	w.pending = nil
	w.stepping = false
	w.nextID = 0
	w.RNG.Seed(seed)
	w.Tick = 0
	w.ActionVX, w.ActionVY = 0, 0
	w.Data = StepData{}
	w.Agent = w.Add(&Entity{Kind: KindAgent, RX: 0.5, RY: 0.5})
}

// Add inserts an entity and assigns its ID. During a tick the entity is
// queued and becomes visible once the tick completes.
func (w *World) Add(e *Entity) *Entity {
	w.nextID++
	e.ID = w.nextID
	if w.stepping {
		w.pending = append(w.pending, e)
	} else {
		w.Entities = append(w.Entities, e)
	}
	return e
}

// Count returns the number of live entities of kind k.
func (w *World) Count(k Kind) int {
	n := 0
	for _, e := range w.Entities {
		if e.Kind == k && !e.erased {
			n++
		}
	}
	return n
}

// Step advances the world by one tick using the given action code.
func (w *World) Step(code int, p Policy) StepData {
	w.Data = StepData{}
	w.Tick++

	p.SetAction(w, code)
	p.UpdateAgentVelocity(w)

	w.stepping = true
	for _, e := range w.Entities {
		if e.erased {
			continue
		}
		if e.ExpireTime > 0 {
			e.Alpha -= e.Alpha / float64(e.ExpireTime)
			e.ExpireTime--
			if e.ExpireTime == 0 {
				e.Erase()
				continue
			}
		}
		switch e.Kind.Info().Motion {
		case MotionCollide:
			w.moveCollide(e, p)
		case MotionFree:
			e.X += e.VX
			e.Y += e.VY
		}
	}

	w.handleContacts(p)
	p.AfterStep(w)
	w.stepping = false
	w.commit()

	if w.Timeout > 0 && w.Tick >= w.Timeout && !w.Data.Done {
		w.Data.Done = true
		w.Data.TimedOut = true
	}
	return w.Data
}

// commit applies queued insertions and drops erased entities.
func (w *World) commit() {
	w.Entities = append(w.Entities, w.pending...)
	w.pending = w.pending[:0]

	kept := w.Entities[:0]
	for _, e := range w.Entities {
		if !e.erased {
			kept = append(kept, e)
		}
	}
	clear(w.Entities[len(kept):])
	w.Entities = kept
}

func (w *World) moveCollide(e *Entity, p Policy) {
	n := max(w.SubSteps, 1)
	for range n {
		if e.VX != 0 {
			w.subStep(e, e.VX/float64(n), true, p)
		}
		if e.VY != 0 {
			w.subStep(e, e.VY/float64(n), false, p)
		}
	}
}

func (w *World) subStep(e *Entity, d float64, horizontal bool, p Policy) {
	dx, dy := d, 0.0
	if !horizontal {
		dx, dy = 0, d
	}

	blocked, reflect := w.probe(e, dx, dy, horizontal, p)
	if !blocked && !reflect {
		if e.SmartStep && horizontal && !w.footingAhead(e, dx, p) {
			e.VX = -e.VX
			return
		}
		e.X += dx
		e.Y += dy
		return
	}

	frac := w.refine(e, dx, dy, horizontal, p)
	e.X += dx * frac
	e.Y += dy * frac

	switch {
	case reflect && horizontal:
		e.VX = -e.VX
	case reflect:
		e.VY = -e.VY
	case horizontal:
		e.VX = 0
	default:
		e.VY = 0
	}
}

// probe tests the mover's box displaced by (dx, dy).
func (w *World) probe(e *Entity, dx, dy float64, horizontal bool, p Policy) (blocked, reflect bool) {
	box := e.Box().Moved(dx, dy)

	x0, x1 := CellSpan(box.Left(), box.Right())
	y0, y1 := CellSpan(box.Bottom(), box.Top())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			t := w.Grid.Get(x, y)
			if e.SmartStep && p.Reflects(e, t) {
				reflect = true
			} else if p.BlockedByTile(w, e, t, horizontal) {
				blocked = true
			}
		}
	}

	for _, o := range w.Entities {
		if o == e || o.erased || !o.Kind.Info().Solid {
			continue
		}
		if box.Overlaps(o.Box()) && p.BlockedByEntity(w, e, o, horizontal) {
			blocked = true
		}
	}
	return blocked, reflect
}

// refine finds the largest fraction of the move that stays clear.
func (w *World) refine(e *Entity, dx, dy float64, horizontal bool, p Policy) float64 {
	lo, hi := 0.0, 1.0
	for range refineSteps {
		mid := (lo + hi) / 2
		if b, r := w.probe(e, dx*mid, dy*mid, horizontal, p); b || r {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo
}

// footingAhead reports whether the cell under the leading edge after a
// horizontal move of dx would still hold the mover up.
func (w *World) footingAhead(e *Entity, dx float64, p Policy) bool {
	lead := e.X + dx + math.Copysign(e.RX-ledgeProbe, dx)
	t := w.Grid.At(lead, e.Bottom()-ledgeProbe)
	return p.Reflects(e, t) || p.BlockedByTile(w, e, t, false)
}

func (w *World) handleContacts(p Policy) {
	a := w.Agent
	box := a.Box()

	x0, x1 := CellSpan(box.Left(), box.Right())
	y0, y1 := CellSpan(box.Bottom(), box.Top())
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if t := w.Grid.Get(x, y); t != TileEmpty {
				p.HandleGridCollision(w, t, x, y)
			}
		}
	}

	for _, o := range w.Entities {
		if o == a || o.erased || !o.Kind.Info().Solid {
			continue
		}
		if box.Overlaps(o.Box()) {
			p.HandleAgentCollision(w, o)
		}
	}
}

// Serialize appends the full host state to b.
func (w *World) Serialize(b *WriteBuffer) {
	b.WriteInt(w.Tick)
	b.WriteInt(w.SubSteps)
	b.WriteInt(w.Timeout)
	b.WriteUint64(w.RNG.State())
	b.WriteInt(w.ActionVX)
	b.WriteInt(w.ActionVY)
	b.WriteFloat(w.Data.Reward)
	b.WriteBool(w.Data.Done)
	b.WriteBool(w.Data.LevelComplete)
	b.WriteBool(w.Data.TimedOut)
	b.WriteInt(w.nextID)

	b.WriteInt(w.Grid.width)
	b.WriteInt(w.Grid.height)
	for _, c := range w.Grid.cells {
		_ = b.WriteByte(byte(c))
	}

	b.WriteInt(len(w.Entities))
	for _, e := range w.Entities {
		b.WriteInt(e.ID)
		b.WriteInt(int(e.Kind))
		b.WriteFloat(e.X)
		b.WriteFloat(e.Y)
		b.WriteFloat(e.RX)
		b.WriteFloat(e.RY)
		b.WriteFloat(e.VX)
		b.WriteFloat(e.VY)
		b.WriteBool(e.SmartStep)
		b.WriteBool(e.IsReflected)
		b.WriteInt(e.RenderZ)
		b.WriteInt(e.Theme)
		b.WriteInt(e.ExpireTime)
		b.WriteFloat(e.Alpha)
	}
	b.WriteInt(w.Agent.ID)
}

// Deserialize restores state written by Serialize. On error w is unchanged.
func (w *World) Deserialize(b *ReadBuffer) error {
	next, err := DecodeWorld(b)
	if err != nil {
		return err
	}
	w.Restore(next)
	return nil
}

// DecodeWorld reads a world written by Serialize into a new instance.
func DecodeWorld(b *ReadBuffer) (*World, error) {
	w := &World{RNG: NewRNG(0)}
	w.Tick = b.ReadInt()
	w.SubSteps = b.ReadInt()
	w.Timeout = b.ReadInt()
	w.RNG.SetState(b.ReadUint64())
	w.ActionVX = b.ReadInt()
	w.ActionVY = b.ReadInt()
	w.Data.Reward = b.ReadFloat()
	w.Data.Done = b.ReadBool()
	w.Data.LevelComplete = b.ReadBool()
	w.Data.TimedOut = b.ReadBool()
	w.nextID = b.ReadInt()

	width, height := b.ReadInt(), b.ReadInt()
	if err := b.Err(); err != nil {
		return nil, err
	}
	if w.SubSteps < 1 || w.Timeout < 0 {
		return nil, fmt.Errorf("%w: sub steps %d timeout %d", ErrCorruptState, w.SubSteps, w.Timeout)
	}
	if width <= 0 || height <= 0 || width*height > b.Remaining() {
		return nil, fmt.Errorf("%w: grid %dx%d", ErrCorruptState, width, height)
	}
	w.Grid = NewGrid(width, height)
	for i := range w.Grid.cells {
		c, _ := b.ReadByte()
		w.Grid.cells[i] = Tile(c)
	}

	n := b.ReadInt()
	if err := b.Err(); err != nil {
		return nil, err
	}
	if n < 0 || n > b.Remaining() {
		return nil, fmt.Errorf("%w: %d entities", ErrCorruptState, n)
	}
	w.Entities = make([]*Entity, 0, n)
	for range n {
		e := &Entity{}
		e.ID = b.ReadInt()
		e.Kind = Kind(b.ReadInt()) //#nosec G115 -- validated below
		e.X = b.ReadFloat()
		e.Y = b.ReadFloat()
		e.RX = b.ReadFloat()
		e.RY = b.ReadFloat()
		e.VX = b.ReadFloat()
		e.VY = b.ReadFloat()
		e.SmartStep = b.ReadBool()
		e.IsReflected = b.ReadBool()
		e.RenderZ = b.ReadInt()
		e.Theme = b.ReadInt()
		e.ExpireTime = b.ReadInt()
		e.Alpha = b.ReadFloat()
		if e.Kind >= numKinds {
			return nil, fmt.Errorf("%w: entity kind %d", ErrCorruptState, e.Kind)
		}
		w.Entities = append(w.Entities, e)
	}

	agentID := b.ReadInt()
	if err := b.Err(); err != nil {
		return nil, err
	}
	for _, e := range w.Entities {
		if e.ID == agentID && e.Kind == KindAgent {
			w.Agent = e
		}
	}
	if w.Agent == nil {
		return nil, fmt.Errorf("%w: missing agent", ErrCorruptState)
	}
	return w, nil
}

// Restore replaces the state of w with the state of src. The RNG instance
// of w is kept and set to the state of src.
func (w *World) Restore(src *World) {
	w.Grid = src.Grid
	w.Entities = src.Entities
	w.Agent = src.Agent
	w.RNG.SetState(src.RNG.State())
	w.Tick = src.Tick
	w.SubSteps = src.SubSteps
	w.Timeout = src.Timeout
	w.ActionVX = src.ActionVX
	w.ActionVY = src.ActionVY
	w.Data = src.Data
	w.nextID = src.nextID
	w.pending = w.pending[:0]
	w.stepping = false
}
