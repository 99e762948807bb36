package coinrun

import (
	"math"

	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// Image is the sprite frame a renderer should draw for an entity or tile.
type Image int

const (
	ImageNone Image = iota
	ImagePlayerStand
	ImagePlayerWalk1
	ImagePlayerWalk2
	ImageEnemy1
	ImageEnemy2
	ImageSaw1
	ImageSaw2
	ImageCrate
	ImageTrail
	ImageGoal
)

// ImageFor selects the animation frame of e at the level's current tick.
func (l *Level) ImageFor(e *engine.Entity) Image {
	tick := l.world.Tick
	switch e.Kind {
	case engine.KindAgent:
		if math.Abs(e.VX) < 0.01 && l.world.ActionVX == 0 && l.hasSupport {
			return ImagePlayerStand
		}
		if tick/5%2 == 0 || !l.hasSupport {
			return ImagePlayerWalk1
		}
		return ImagePlayerWalk2
	case engine.KindEnemy:
		if tick/5%2 == 0 {
			return ImageEnemy1
		}
		return ImageEnemy2
	case engine.KindSaw:
		if tick%2 == 0 {
			return ImageSaw1
		}
		return ImageSaw2
	case engine.KindCrate:
		return ImageCrate
	case engine.KindTrail:
		return ImageTrail
	case engine.KindGoal:
		return ImageGoal
	}
	return ImageNone
}

// TileVisible reports whether a tile is drawn at all. Barriers are invisible.
func TileVisible(t engine.Tile) bool {
	return t != engine.TileEmpty && t != engine.TileBarrier
}
