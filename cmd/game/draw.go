package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jwebster45206/yingzhou/pkg/actor"
	"github.com/jwebster45206/yingzhou/pkg/geom"
	"github.com/jwebster45206/yingzhou/pkg/state"
	"github.com/jwebster45206/yingzhou/pkg/textfilter"
)

const (
	pixelsPerUnit = 12.0
	gridSpacing   = 10.0
)

var (
	gridColor   = color.RGBA{R: 255, G: 255, B: 255, A: 24}
	ringColor   = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	nearbyColor = color.RGBA{R: 255, G: 230, B: 90, A: 255}
	playerColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	hudShade    = color.RGBA{R: 0, G: 0, B: 0, A: 140}
)

// worldToScreen projects the XZ plane onto the screen with cam at the centre.
func worldToScreen(p, cam geom.Vec3) (float32, float32) {
	x := screenWidth/2 + (p.X-cam.X)*pixelsPerUnit
	y := screenHeight/2 + (p.Z-cam.Z)*pixelsPerUnit
	return float32(x), float32(y)
}

// heading is the unit XZ direction the player faces. Yaw 0 looks toward -Z.
func heading(yaw float64) (dx, dz float64) {
	rad := yaw * math.Pi / 180
	return math.Sin(rad), -math.Cos(rad)
}

// squareCorners returns the corners of a square of half-size half centred on
// (cx, cy), turned by deg degrees.
func squareCorners(cx, cy, half float32, deg float64) [4][2]float32 {
	rad := deg * math.Pi / 180
	cos, sin := float32(math.Cos(rad)), float32(math.Sin(rad))
	offsets := [4][2]float32{{-half, -half}, {half, -half}, {half, half}, {-half, half}}
	var out [4][2]float32
	for i, o := range offsets {
		out[i] = [2]float32{
			cx + o[0]*cos - o[1]*sin,
			cy + o[0]*sin + o[1]*cos,
		}
	}
	return out
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.snap
	cam := snap.Player.Position
	screen.Fill(snap.World.Background)

	g.drawGrid(screen, cam)

	for i, n := range snap.NPCs {
		x, y := worldToScreen(n.Position, cam)
		if n.Nearby {
			vector.StrokeCircle(screen, x, y, actor.InteractionDistance*pixelsPerUnit, 1, ringColor, true)
		}

		half := float32(n.Size * pixelsPerUnit / 2)
		corners := squareCorners(x, y, half, n.Rotation)
		edge := color.Color(n.Color)
		width := float32(2)
		if n.Nearby {
			edge = nearbyColor
			width = 3
		}
		for j := range corners {
			a, b := corners[j], corners[(j+1)%4]
			vector.StrokeLine(screen, a[0], a[1], b[0], b[1], width, edge, true)
		}
		vector.FillCircle(screen, x, y, half/2, n.Color, true)

		label := fmt.Sprintf("%d", i+1)
		if n.ID == snap.Selected {
			label = ">" + label
		}
		ebitenutil.DebugPrintAt(screen, label, int(x+half)+4, int(y-half)-4)
	}

	px, py := worldToScreen(cam, cam)
	hx, hz := heading(snap.Player.Yaw)
	radius := float32(6)
	if snap.Player.Jumping {
		// Drawn larger while airborne, since the view has no height axis.
		radius += float32((snap.Player.Position.Y - actor.GroundLevel) * 4)
	}
	vector.FillCircle(screen, px, py, radius, playerColor, true)
	vector.StrokeLine(screen, px, py, px+float32(hx*18), py+float32(hz*18), 2, playerColor, true)

	vector.FillRect(screen, 0, 0, screenWidth, 150, hudShade, false)
	ebitenutil.DebugPrint(screen, hudText(snap, g.currentStatus(), g.typing, string(g.input)))
}

func (g *Game) drawGrid(screen *ebiten.Image, cam geom.Vec3) {
	halfW := screenWidth / 2 / pixelsPerUnit
	halfH := screenHeight / 2 / pixelsPerUnit
	for x := math.Floor((cam.X-halfW)/gridSpacing) * gridSpacing; x <= cam.X+halfW; x += gridSpacing {
		sx, _ := worldToScreen(geom.Vec3{X: x}, cam)
		vector.StrokeLine(screen, sx, 0, sx, screenHeight, 1, gridColor, false)
	}
	for z := math.Floor((cam.Z-halfH)/gridSpacing) * gridSpacing; z <= cam.Z+halfH; z += gridSpacing {
		_, sy := worldToScreen(geom.Vec3{Z: z}, cam)
		vector.StrokeLine(screen, 0, sy, screenWidth, sy, 1, gridColor, false)
	}
}

func (g *Game) currentStatus() string {
	if g.statusTicks <= 0 {
		return ""
	}
	return g.status
}

// hudText is ASCII only; the debug font has no CJK glyphs.
func hudText(snap state.Snapshot, status string, typing bool, input string) string {
	var b strings.Builder
	w := snap.World

	fmt.Fprintf(&b, "YINGZHOU  epoch %s  entropy %.1f  ", textfilter.TitleCase(w.EpochName), w.Entropy)
	if w.Required > 0 {
		fmt.Fprintf(&b, "fragments %d/%d", w.Fragments, w.Required)
	} else {
		fmt.Fprintf(&b, "fragments %d", w.Fragments)
	}
	if w.CanAdvance {
		b.WriteString("  [N] advance")
	}
	fmt.Fprintf(&b, "\npos %s  yaw %.0f  pitch %.0f  time %.0fs\n",
		snap.Player.Position, snap.Player.Yaw, snap.Player.Pitch, snap.PlayTime)

	for i, n := range snap.NPCs {
		mark := " "
		switch {
		case n.ID == snap.Selected:
			mark = ">"
		case n.Nearby:
			mark = "*"
		}
		fmt.Fprintf(&b, "%s%d %s  ", mark, i+1, n.Title)
		if i == 2 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	if typing {
		fmt.Fprintf(&b, "say> %s_   (Enter send, Esc cancel)\n", input)
	} else {
		b.WriteString("WASD move  RMB look  Space jump  E interact  Tab/1-5 select  Enter talk\n")
		b.WriteString("F collect  N advance  C copy report  Esc quit\n")
	}
	if status != "" {
		b.WriteString(status + "\n")
	}
	return b.String()
}
