package engine

// CollisionPolicy decides how movers interact with tiles and other entities.
type CollisionPolicy interface {
	// BlockedByTile reports whether t stops mover on the given axis.
	BlockedByTile(w *World, mover *Entity, t Tile, horizontal bool) bool
	// BlockedByEntity reports whether target stops mover on the given axis.
	BlockedByEntity(w *World, mover, target *Entity, horizontal bool) bool
	// Reflects reports whether a smart-step mover bounces off t.
	Reflects(mover *Entity, t Tile) bool
}

// VelocityPolicy turns the tick's action into agent velocity.
type VelocityPolicy interface {
	// SetAction decodes the action code and refreshes support state.
	SetAction(w *World, code int)
	UpdateAgentVelocity(w *World)
}

// TerminationPolicy assigns reward and termination from contacts.
type TerminationPolicy interface {
	HandleAgentCollision(w *World, other *Entity)
	HandleGridCollision(w *World, t Tile, x, y int)
}

// Policy is everything a level type plugs into the tick loop.
type Policy interface {
	CollisionPolicy
	VelocityPolicy
	TerminationPolicy
	// AfterStep runs once per tick after movement and contacts.
	AfterStep(w *World)
}
