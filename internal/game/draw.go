package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/fennweller/ember-city/internal/sim"
)

// Ground and road palette.
var (
	groundFill = color.RGBA{R: 30, G: 38, B: 30, A: 255}
	roadFill   = color.RGBA{R: 48, G: 46, B: 42, A: 255} // dark asphalt
	roadEdge   = color.RGBA{R: 62, G: 60, B: 54, A: 255} // slightly lighter kerb
	roadMark   = color.RGBA{R: 78, G: 76, B: 64, A: 130} // faint centre-line
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(groundFill)

	minX, minY, maxX, maxY := g.viewportBounds()

	g.drawRoads(screen, minX, minY, maxX, maxY)
	g.drawBuildings(screen, minX, minY, maxX, maxY)
	g.drawWaterJet(screen)
	g.drawVehicle(screen)
	g.drawDrone(screen)

	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawRoads(screen *ebiten.Image, minX, minY, maxX, maxY float64) {
	scale := float32(pixelsPerUnit * g.camZoom)
	for i := range g.sim.World.Roads {
		rd := &g.sim.World.Roads[i]
		bb := rd.Bounds()
		if bb.MaxX < minX || bb.MinX > maxX || bb.MaxY < minY || bb.MinY > maxY {
			continue
		}
		x0, y0 := g.worldToScreen(bb.MinX, bb.MinY)
		w := float32(bb.MaxX-bb.MinX) * scale
		h := float32(bb.MaxY-bb.MinY) * scale
		vector.DrawFilledRect(screen, x0, y0, w, h, roadFill, false)
		// Kerb lines along the long edges.
		if rd.Orientation == sim.RoadHorizontal {
			vector.StrokeLine(screen, x0, y0, x0+w, y0, 1.0, roadEdge, false)
			vector.StrokeLine(screen, x0, y0+h, x0+w, y0+h, 1.0, roadEdge, false)
		} else {
			vector.StrokeLine(screen, x0, y0, x0, y0+h, 1.0, roadEdge, false)
			vector.StrokeLine(screen, x0+w, y0, x0+w, y0+h, 1.0, roadEdge, false)
		}
		// Dashed centre marking on majors only; minors stay plain.
		if rd.Class != sim.RoadMajor {
			continue
		}
		dashLen := 6 * scale
		gap := 4 * scale
		if rd.Orientation == sim.RoadHorizontal {
			cy := y0 + h/2
			for x := x0; x < x0+w; x += dashLen + gap {
				end := x + dashLen
				if end > x0+w {
					end = x0 + w
				}
				vector.StrokeLine(screen, x, cy, end, cy, 1.0, roadMark, false)
			}
		} else {
			cx := x0 + w/2
			for y := y0; y < y0+h; y += dashLen + gap {
				end := y + dashLen
				if end > y0+h {
					end = y0 + h
				}
				vector.StrokeLine(screen, cx, y, cx, end, 1.0, roadMark, false)
			}
		}
	}
}

func (g *Game) drawBuildings(screen *ebiten.Image, minX, minY, maxX, maxY float64) {
	scale := float32(pixelsPerUnit * g.camZoom)
	for _, b := range g.sim.Registry.All() {
		bb := b.Bounds
		if bb.MaxX < minX || bb.MinX > maxX || bb.MaxY < minY || bb.MinY > maxY {
			continue
		}
		x0, y0 := g.worldToScreen(bb.MinX, bb.MinY)
		w := float32(bb.MaxX-bb.MinX) * scale
		h := float32(bb.MaxY-bb.MinY) * scale

		// Drop shadow, then body, then state dressing. The body is the
		// resolved facade texture when the load has come back; until then
		// (and in every non-normal state) it is the flat placeholder.
		vector.DrawFilledRect(screen, x0+2, y0+2, w, h, color.RGBA{R: 8, G: 10, B: 8, A: 90}, false)
		if img, ok := b.Visual.(*ebiten.Image); ok && b.State() == sim.StateNormal {
			op := &ebiten.DrawImageOptions{}
			iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
			op.GeoM.Scale(float64(w)/float64(iw), float64(h)/float64(ih))
			op.GeoM.Translate(float64(x0), float64(y0))
			screen.DrawImage(img, op)
		} else {
			fill, border := buildingColors(b)
			vector.DrawFilledRect(screen, x0, y0, w, h, fill, false)
			vector.StrokeRect(screen, x0, y0, w, h, 1.0, border, false)
		}

		switch b.State() {
		case sim.StateBurning:
			g.drawFireGlow(screen, b, x0, y0, w, h)
		case sim.StateExtinguished:
			if b.Saved() {
				// Small check mark in the corner.
				vector.StrokeLine(screen, x0+3, y0+6, x0+5, y0+9, 1.5, color.RGBA{R: 90, G: 220, B: 120, A: 220}, false)
				vector.StrokeLine(screen, x0+5, y0+9, x0+10, y0+3, 1.5, color.RGBA{R: 90, G: 220, B: 120, A: 220}, false)
			}
		}
	}
}

// buildingFacade renders the top-down roof texture for one building at the
// base pixel density; the camera scales it at draw time. Blocks get a
// skylight row, dwellings a ridge line.
func buildingFacade(b *sim.Building) *ebiten.Image {
	w := int((b.Bounds.MaxX - b.Bounds.MinX) * pixelsPerUnit)
	h := int((b.Bounds.MaxY - b.Bounds.MinY) * pixelsPerUnit)
	if w < 4 {
		w = 4
	}
	if h < 4 {
		h = 4
	}
	img := ebiten.NewImage(w, h)

	fill := color.RGBA{R: 96, G: 90, B: 78, A: 255}
	border := color.RGBA{R: 128, G: 120, B: 104, A: 200}
	if b.Kind == sim.KindBlock {
		fill = color.RGBA{R: 88, G: 88, B: 96, A: 255}
		border = color.RGBA{R: 120, G: 120, B: 130, A: 200}
	}
	img.Fill(fill)
	vector.StrokeRect(img, 0.5, 0.5, float32(w)-1, float32(h)-1, 1.0, border, false)

	fw, fh := float32(w), float32(h)
	detail := color.RGBA{R: border.R, G: border.G, B: border.B, A: 110}
	if b.Kind == sim.KindBlock {
		// Roof inset and a skylight row along the long axis.
		vector.StrokeRect(img, 3, 3, fw-6, fh-6, 1.0, detail, false)
		if w >= h {
			for x := fw * 0.25; x <= fw*0.75; x += fw * 0.25 {
				vector.DrawFilledRect(img, x-1.5, fh/2-1.5, 3, 3, detail, false)
			}
		} else {
			for y := fh * 0.25; y <= fh*0.75; y += fh * 0.25 {
				vector.DrawFilledRect(img, fw/2-1.5, y-1.5, 3, 3, detail, false)
			}
		}
	} else {
		// Ridge line across the narrow axis.
		if w >= h {
			vector.StrokeLine(img, 2, fh/2, fw-2, fh/2, 1.0, detail, false)
		} else {
			vector.StrokeLine(img, fw/2, 2, fw/2, fh-2, 1.0, detail, false)
		}
	}
	return img
}

// buildingColors maps lifecycle state and kind to fill and border colours.
func buildingColors(b *sim.Building) (fill, border color.RGBA) {
	switch b.State() {
	case sim.StateBurning:
		return color.RGBA{R: 120, G: 58, B: 30, A: 255}, color.RGBA{R: 255, G: 140, B: 40, A: 220}
	case sim.StateExtinguished:
		return color.RGBA{R: 60, G: 72, B: 86, A: 255}, color.RGBA{R: 110, G: 140, B: 170, A: 200}
	case sim.StateDestroyed:
		return color.RGBA{R: 34, G: 30, B: 26, A: 255}, color.RGBA{R: 54, G: 48, B: 40, A: 160}
	}
	if b.Kind == sim.KindBlock {
		return color.RGBA{R: 88, G: 88, B: 96, A: 255}, color.RGBA{R: 120, G: 120, B: 130, A: 200}
	}
	return color.RGBA{R: 96, G: 90, B: 78, A: 255}, color.RGBA{R: 128, G: 120, B: 104, A: 200}
}

// drawFireGlow renders flickering concentric blooms over a burning
// building, scaled by the episode's remaining intensity so active
// extinguishing visibly damps the fire.
func (g *Game) drawFireGlow(screen *ebiten.Image, b *sim.Building, x0, y0, w, h float32) {
	intensity := 1.0
	if ep := g.sim.Scheduler.Episode(b); ep != nil {
		intensity = ep.Intensity
	}
	if intensity <= 0.01 {
		return
	}
	flicker := 0.85 + 0.15*math.Sin(float64(g.sim.Tick())*0.37+float64(b.ID))
	a := func(base float64) uint8 { return uint8(base * intensity * flicker) }

	cx := x0 + w/2
	cy := y0 + h/2
	r := w
	if h > w {
		r = h
	}
	vector.DrawFilledCircle(screen, cx, cy, r*0.8, color.RGBA{R: 255, G: 120, B: 30, A: a(40)}, false)
	vector.DrawFilledCircle(screen, cx, cy, r*0.45, color.RGBA{R: 255, G: 170, B: 50, A: a(70)}, false)
	vector.DrawFilledCircle(screen, cx, cy, r*0.2, color.RGBA{R: 255, G: 230, B: 140, A: a(110)}, false)
}

func (g *Game) drawVehicle(screen *ebiten.Image) {
	v := g.sim.Vehicle
	scale := pixelsPerUnit * g.camZoom
	cx, cy := g.worldToScreen(v.X, v.Y)
	size := float32(3.0 * scale)

	// Triangle pointing along the heading.
	tipX := cx + size*float32(math.Cos(v.Heading))
	tipY := cy + size*float32(math.Sin(v.Heading))
	lx := cx + size*0.7*float32(math.Cos(v.Heading+2.5))
	ly := cy + size*0.7*float32(math.Sin(v.Heading+2.5))
	rx := cx + size*0.7*float32(math.Cos(v.Heading-2.5))
	ry := cy + size*0.7*float32(math.Sin(v.Heading-2.5))

	body := color.RGBA{R: 210, G: 40, B: 40, A: 255}
	vector.DrawFilledCircle(screen, cx, cy, size*0.55, body, false)
	vector.StrokeLine(screen, lx, ly, tipX, tipY, 2.0, body, false)
	vector.StrokeLine(screen, rx, ry, tipX, tipY, 2.0, body, false)
	vector.StrokeLine(screen, lx, ly, rx, ry, 2.0, body, false)
	// Heading marker.
	vector.StrokeLine(screen, cx, cy, tipX, tipY, 1.0, color.RGBA{R: 255, G: 220, B: 220, A: 200}, false)
}

func (g *Game) drawDrone(screen *ebiten.Image) {
	if g.sim.Mission.Mode() == sim.ModeDriving {
		return
	}
	d := g.sim.Mission.DronePose()
	cx, cy := g.worldToScreen(d.X, d.Y)
	// Altitude shown as ring radius.
	r := float32(1.5*pixelsPerUnit*g.camZoom) + float32(d.Z*0.15*pixelsPerUnit*g.camZoom)
	droneCol := color.RGBA{R: 80, G: 200, B: 255, A: 230}
	vector.StrokeCircle(screen, cx, cy, r, 1.5, droneCol, false)
	vector.DrawFilledCircle(screen, cx, cy, 2.5, droneCol, false)
	// Ground shadow.
	vector.DrawFilledCircle(screen, cx, cy, 1.5, color.RGBA{A: 90}, false)
}

// drawWaterJet renders the active spray as a line from the emitter toward
// the aim direction, clipped at the target when hitting.
func (g *Game) drawWaterJet(screen *ebiten.Image) {
	a := g.sim.Mission.ActiveAim()
	if a == nil {
		return
	}
	fx, fy, _ := a.Forward()
	reach := 20.0
	if t := g.sim.Mission.SprayTarget(); t != nil {
		reach = math.Hypot(t.X-a.X, t.Y-a.Y)
	}
	sx, sy := g.worldToScreen(a.X, a.Y)
	ex, ey := g.worldToScreen(a.X+fx*reach, a.Y+fy*reach)

	water := color.RGBA{R: 110, G: 180, B: 255, A: 200}
	mist := color.RGBA{R: 150, G: 210, B: 255, A: 70}
	vector.StrokeLine(screen, sx, sy, ex, ey, 2.0, water, false)
	vector.StrokeLine(screen, sx, sy, ex, ey, 5.0, mist, false)
	vector.DrawFilledCircle(screen, ex, ey, 4.0, mist, false)
}

var hudFace = basicfont.Face7x13

// drawHUD renders score, mode and the key legend. The status line uses the
// bitmap face so it reads at any zoom; the legend uses the debug print.
func (g *Game) drawHUD(screen *ebiten.Image) {
	m := g.sim.Mission

	status := fmt.Sprintf("SCORE %d   MODE %s", m.Score(), m.Mode())
	if !m.Unlocked() {
		status += "   [drive to unlock dispatch]"
	}
	if m.ActiveAim() != nil {
		status += fmt.Sprintf("   %.0f%%", m.Progress()*100)
	}
	text.Draw(screen, status, hudFace, 10, 20, color.RGBA{R: 235, G: 235, B: 220, A: 255})

	if burning := g.sim.Scheduler.Burning(); len(burning) > 0 {
		alert := fmt.Sprintf("FIRES: %d", len(burning))
		text.Draw(screen, alert, hudFace, 10, 36, color.RGBA{R: 255, G: 150, B: 60, A: 255})
	}

	legend := "WASD/arrows=drive  S=brake  IJKL=aim  Space=cancel  click=ignite  R=report  P=pause  H=hud"
	ebitenutil.DebugPrintAt(screen, legend, 10, g.height-18)

	if g.lastReport != "" && g.sim.Tick()-g.reportTick < 120 {
		ebitenutil.DebugPrintAt(screen, "report copied to clipboard", 10, g.height-34)
	}

	speedStr := ""
	switch {
	case g.simSpeed == 0:
		speedStr = "PAUSED"
	case g.simSpeed != 1:
		speedStr = fmt.Sprintf("%.1fx", g.simSpeed)
	}
	if speedStr != "" {
		ebitenutil.DebugPrintAt(screen, speedStr, g.width-60, 10)
	}
}
