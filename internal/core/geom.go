// Package core provides fundamental types and utilities shared by the host
// engine, the level types and the terminal platform. It has no external
// dependencies so simulation code stays pure and testable.
package core

import "math"

// Rect represents an integer rectangle on the text screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is a centre/half-extent axis-aligned box in world units.
// Y grows upwards, matching the tile grid.
type Box struct {
	X, Y   float64 // Centre
	RX, RY float64 // Half-width, half-height
}

// NewBox creates a box centred at (x, y).
func NewBox(x, y, rx, ry float64) Box {
	return Box{X: x, Y: y, RX: rx, RY: ry}
}

// Left returns the x-coordinate of the left edge.
func (b Box) Left() float64 { return b.X - b.RX }

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.RX }

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y - b.RY }

// Top returns the y-coordinate of the top edge.
func (b Box) Top() float64 { return b.Y + b.RY }

// Overlaps reports whether two boxes intersect. Touching edges do not count.
func (b Box) Overlaps(other Box) bool {
	return math.Abs(b.X-other.X) < b.RX+other.RX &&
		math.Abs(b.Y-other.Y) < b.RY+other.RY
}

// Moved returns a copy of the box translated by (dx, dy).
func (b Box) Moved(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClipAbs limits the magnitude of val to limit, keeping its sign.
func ClipAbs(val, limit float64) float64 {
	return ClampF(val, -limit, limit)
}
