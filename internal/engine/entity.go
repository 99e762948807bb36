package engine

import "github.com/vovakirdan/tui-coinrun/internal/core"

// Kind classifies an entity. It never changes after creation.
type Kind uint8

const (
	KindAgent Kind = iota
	KindEnemy
	KindSaw
	KindCrate
	KindTrail
	KindGoal
	numKinds
)

// Motion selects how the tick loop moves an entity of a given kind.
type Motion uint8

const (
	// MotionStatic entities never move.
	MotionStatic Motion = iota
	// MotionCollide entities are sub-stepped against tiles and other entities.
	MotionCollide
	// MotionFree entities integrate velocity without collision.
	MotionFree
)

// KindInfo is the per-kind behaviour row.
type KindInfo struct {
	Name   string
	Glyph  rune
	Motion Motion
	// Solid kinds take part in the agent's contact checks.
	Solid bool
}

var kindTable = [numKinds]KindInfo{
	KindAgent: {Name: "agent", Glyph: '@', Motion: MotionCollide},
	KindEnemy: {Name: "enemy", Glyph: 'E', Motion: MotionCollide, Solid: true},
	KindSaw:   {Name: "saw", Glyph: '*', Motion: MotionStatic, Solid: true},
	KindCrate: {Name: "crate", Glyph: 'X', Motion: MotionStatic, Solid: true},
	KindTrail: {Name: "trail", Glyph: '.', Motion: MotionFree},
	KindGoal:  {Name: "goal", Glyph: '$', Motion: MotionStatic, Solid: true},
}

// Info returns the behaviour row for k.
func (k Kind) Info() KindInfo {
	if k >= numKinds {
		return KindInfo{Name: "unknown", Glyph: '?'}
	}
	return kindTable[k]
}

func (k Kind) String() string {
	return k.Info().Name
}

// Entity is a dynamic object of the simulation.
type Entity struct {
	ID   int
	Kind Kind

	X, Y   float64
	RX, RY float64
	VX, VY float64

	// SmartStep entities bounce off reflecting surfaces and turn at ledges.
	SmartStep bool
	// IsReflected mirrors the sprite horizontally.
	IsReflected bool
	RenderZ     int
	Theme       int

	// ExpireTime counts ticks left to live; zero means no expiry.
	ExpireTime int
	Alpha      float64

	erased bool
}

// Box returns the entity's bounding box.
func (e *Entity) Box() core.Box {
	return core.NewBox(e.X, e.Y, e.RX, e.RY)
}

// Erase marks the entity for removal at the end of the current tick.
func (e *Entity) Erase() {
	e.erased = true
}

// Erased reports whether the entity is scheduled for removal.
func (e *Entity) Erased() bool {
	return e.erased
}

// Bottom returns the y coordinate of the entity's lower edge.
func (e *Entity) Bottom() float64 {
	return e.Y - e.RY
}
