package engine

import "math"

// Tile is the kind of a single grid cell.
type Tile uint8

const (
	TileEmpty Tile = iota
	TileWallMid
	TileWallTop
	TileLavaMid
	TileLavaTop
	TileBarrier
	TileGoal
)

var tileNames = [...]string{
	TileEmpty:   "empty",
	TileWallMid: "wall",
	TileWallTop: "wall_top",
	TileLavaMid: "lava",
	TileLavaTop: "lava_top",
	TileBarrier: "barrier",
	TileGoal:    "goal",
}

func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return "unknown"
}

// IsWall reports whether t is a wall body or cap.
func (t Tile) IsWall() bool {
	return t == TileWallMid || t == TileWallTop
}

// IsLava reports whether t is a lava body or cap.
func (t Tile) IsLava() bool {
	return t == TileLavaMid || t == TileLavaTop
}

// OutOfBounds is returned for every read outside the grid, so the level
// behaves as if surrounded by solid wall.
const OutOfBounds = TileWallMid

// Grid is a fixed-size tile map. Row 0 is the floor; y grows upward.
type Grid struct {
	width  int
	height int
	cells  []Tile
}

// NewGrid allocates an empty grid.
func NewGrid(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Tile, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the tile at (x, y), or OutOfBounds.
func (g *Grid) Get(x, y int) Tile {
	if !g.InBounds(x, y) {
		return OutOfBounds
	}
	return g.cells[y*g.width+x]
}

// Set writes a tile. Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, t Tile) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = t
}

// At returns the tile containing the continuous point (x, y).
func (g *Grid) At(x, y float64) Tile {
	return g.Get(int(math.Floor(x)), int(math.Floor(y)))
}

// Fill writes t into the dx by dy block whose lower-left cell is (x, y).
func (g *Grid) Fill(x, y, dx, dy int, t Tile) {
	for j := y; j < y+dy; j++ {
		for i := x; i < x+dx; i++ {
			g.Set(i, j, t)
		}
	}
}

// FillTop fills a block with body tiles and caps its highest row with top.
func (g *Grid) FillTop(x, y, dx, dy int, body, top Tile) {
	if dy <= 0 {
		return
	}
	g.Fill(x, y, dx, dy-1, body)
	g.Fill(x, y+dy-1, dx, 1, top)
}

// Clear resets every cell to TileEmpty.
func (g *Grid) Clear() {
	clear(g.cells)
}

// Count returns how many cells hold t.
func (g *Grid) Count(t Tile) int {
	n := 0
	for _, c := range g.cells {
		if c == t {
			n++
		}
	}
	return n
}

// Find returns the first cell holding t scanning row by row from the floor.
func (g *Grid) Find(t Tile) (x, y int, ok bool) {
	for i, c := range g.cells {
		if c == t {
			return i % g.width, i / g.width, true
		}
	}
	return 0, 0, false
}

// overlapEps keeps flush edges from counting as overlap.
const overlapEps = 1e-6

// CellSpan returns the inclusive cell range covered by the open interval (lo, hi).
func CellSpan(lo, hi float64) (first, last int) {
	return int(math.Floor(lo + overlapEps)), int(math.Floor(hi - overlapEps))
}
