package coinrun

import (
	"fmt"
	"math"
	"sort"

	"github.com/vovakirdan/tui-coinrun/internal/core"
	"github.com/vovakirdan/tui-coinrun/internal/engine"
)

// cellW is the number of screen columns per world tile.
const cellW = 2

var groundColors = [NumGroundThemes]core.Color{
	core.ColorBrown,
	core.ColorGreen,
	core.ColorMagenta,
	core.ColorTan,
	core.ColorIce,
	core.ColorGray,
}

var playerColors = [NumPlayerThemes]core.Color{
	core.ColorWhite,
	core.ColorBrightBlue,
	core.ColorBrightGreen,
	core.ColorBrightMagenta,
	core.ColorBrightYellow,
}

var enemyColors = [NumEnemyThemes]core.Color{
	core.ColorRed,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorYellow,
	core.ColorGreen,
	core.ColorBlue,
	core.ColorBrightRed,
	core.ColorBrightMagenta,
	core.ColorOrange,
}

var crateColors = [NumCrateThemes]core.Color{
	core.ColorBrown,
	core.ColorTan,
	core.ColorOrange,
	core.ColorYellow,
}

func themeColor(palette []core.Color, theme int) core.Color {
	if theme < 0 || theme >= len(palette) {
		return core.ColorDefault
	}
	return palette[theme]
}

func tileGlyph(t engine.Tile, wallTheme int) (string, core.Color) {
	ground := themeColor(groundColors[:], wallTheme)
	switch t {
	case engine.TileWallTop:
		return "▓▓", ground
	case engine.TileWallMid:
		return "██", ground
	case engine.TileLavaTop:
		return "~~", core.ColorOrange
	case engine.TileLavaMid:
		return "≈≈", core.ColorRed
	case engine.TileGoal:
		return "$$", core.ColorBrightYellow
	}
	return "", core.ColorDefault
}

func (l *Level) entityGlyph(e *engine.Entity) (string, core.Color) {
	switch img := l.ImageFor(e); img {
	case ImagePlayerStand, ImagePlayerWalk1, ImagePlayerWalk2:
		c := themeColor(playerColors[:], e.Theme)
		body := "@"
		if img == ImagePlayerWalk2 {
			body = "&"
		}
		if e.IsReflected {
			return "<" + body, c
		}
		return body + ">", c
	case ImageEnemy1:
		return "oo", themeColor(enemyColors[:], e.Theme)
	case ImageEnemy2:
		return "OO", themeColor(enemyColors[:], e.Theme)
	case ImageSaw1:
		return "**", core.ColorBrightWhite
	case ImageSaw2:
		return "++", core.ColorBrightWhite
	case ImageCrate:
		return "[]", themeColor(crateColors[:], e.Theme)
	case ImageTrail:
		return "··", core.ColorGray
	case ImageGoal:
		return "$$", core.ColorBrightYellow
	}
	return "", core.ColorDefault
}

// hudRows is the status line plus its separator above the level view.
const hudRows = 2

// Camera maps world cells to screen cells.
type Camera struct {
	X, Y  int // world cell shown at the bottom-left of the view
	W, H  int // view size in world cells
	Top   int // first screen row of the view
	cellW int
}

// NewCamera centres a view of the screen area below row top on the agent,
// clamped to the grid.
func NewCamera(dst *core.Screen, l *Level, top int) Camera {
	g := l.World().Grid
	a := l.Agent()
	cam := Camera{
		W:     dst.Width() / cellW,
		H:     dst.Height() - top,
		Top:   top,
		cellW: cellW,
	}
	cam.X = clampView(int(math.Floor(a.X))-cam.W/2, g.Width(), cam.W)
	cam.Y = clampView(int(math.Floor(a.Y))-cam.H/2, g.Height(), cam.H)
	return cam
}

func clampView(start, size, view int) int {
	if view >= size {
		return 0
	}
	return core.Clamp(start, 0, size-view)
}

// ToScreen converts a world cell to a screen position.
func (c Camera) ToScreen(wx, wy int) (sx, sy int, ok bool) {
	dx, dy := wx-c.X, wy-c.Y
	if dx < 0 || dx >= c.W || dy < 0 || dy >= c.H {
		return 0, 0, false
	}
	return dx * c.cellW, c.Top + c.H - 1 - dy, true
}

// DrawLevel draws the tiles and entities visible through the camera.
func DrawLevel(dst *core.Screen, l *Level, top int) {
	w := l.World()
	cam := NewCamera(dst, l, top)

	for dy := range cam.H {
		for dx := range cam.W {
			wx, wy := cam.X+dx, cam.Y+dy
			t := w.Grid.Get(wx, wy)
			if !w.Grid.InBounds(wx, wy) || !TileVisible(t) {
				continue
			}
			glyph, color := tileGlyph(t, l.WallTheme())
			if sx, sy, ok := cam.ToScreen(wx, wy); ok {
				dst.DrawTextColored(sx, sy, glyph, color)
			}
		}
	}

	ents := make([]*engine.Entity, 0, len(w.Entities))
	ents = append(ents, w.Entities...)
	sort.SliceStable(ents, func(i, j int) bool {
		return drawOrder(ents[i]) < drawOrder(ents[j])
	})
	for _, e := range ents {
		glyph, color := l.entityGlyph(e)
		if glyph == "" {
			continue
		}
		if sx, sy, ok := cam.ToScreen(int(math.Floor(e.X)), int(math.Floor(e.Y))); ok {
			dst.DrawTextColored(sx, sy, glyph, color)
		}
	}
}

// drawOrder puts trails underneath and the agent on top.
func drawOrder(e *engine.Entity) int {
	switch e.Kind {
	case engine.KindTrail:
		return -1
	case engine.KindAgent:
		return 100
	}
	return e.RenderZ
}

// Render draws the level view and HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.level == nil {
		msg := "level not loaded"
		if g.err != nil {
			msg = g.err.Error()
		}
		drawCenteredMessage(dst, "CONFIG ERROR", msg)
		return
	}

	l := g.level
	DrawLevel(dst, l, hudRows)
	dst.DrawHLine(0, hudRows-1, dst.Width(), '─')

	p := l.Params()
	hud := fmt.Sprintf(" %s  tick %d  reward %.0f  difficulty %d  %s pits  %s ",
		g.Title(), l.Ticks(), l.TotalReward(), p.Difficulty, p.Hazard, GroundThemes[l.WallTheme()])
	dst.DrawText(1, 0, hud)

	if g.paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	switch l.Outcome() {
	case OutcomeGoal:
		drawCenteredMessage(dst, "LEVEL COMPLETE", fmt.Sprintf("+%.0f in %d ticks  |  Press R for a new level", GoalReward, l.Ticks()))
	case OutcomeDeath:
		drawCenteredMessage(dst, "YOU DIED", fmt.Sprintf("Killed by %s  |  Press R to restart", l.Cause()))
	case OutcomeTimeout:
		drawCenteredMessage(dst, "TIME UP", "Press R to restart")
	}
}

// drawCenteredMessage draws a boxed message in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 6
	boxH := 5
	x := (dst.Width() - boxW) / 2
	y := (dst.Height() - boxH) / 2

	dst.DrawRect(core.NewRect(x, y, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(x, y, boxW, boxH))
	dst.DrawTextCentered(y+1, title)
	dst.DrawTextCentered(y+3, subtitle)
}
