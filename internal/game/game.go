// Package game is the interactive host: an ebiten top-down renderer, a
// keyboard stand-in for the gesture control source, and the audio and
// clipboard plumbing around the simulation core.
package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/fennweller/ember-city/internal/config"
	"github.com/fennweller/ember-city/internal/sim"
)

// tickDT is the fixed sim delta; the host drives one logical update per
// rendered frame at 60 Hz.
const tickDT = 1.0 / 60.0

// pixelsPerUnit converts world units to screen pixels at zoom 1.
const pixelsPerUnit = 4.0

type Game struct {
	sim    *sim.Sim
	width  int
	height int
	log    zerolog.Logger

	// Camera follows the vehicle; zoom is user-controlled.
	camX    float64
	camY    float64
	camZoom float64

	// Virtual hand driven by the keyboard, normalized to [-0.5, 0.5]².
	handX    float64
	handY    float64
	handFist bool

	showHUD  bool
	prevKeys map[ebiten.Key]bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused, 0.5, 1, 2, 4
	tickAccum float64

	prevMouseLeft bool

	// Facade loads already requested, by building ID. Resolutions apply
	// at the sim's drain point, one tick after the request at the earliest.
	visualsRequested map[int]bool

	sound *SoundManager

	lastReport string // kept so tests and the HUD can show copy feedback
	reportTick int
}

// New builds the host around a freshly generated simulation. The caller
// has already loaded configuration; window size and audio volumes come
// from it, sim tuning overrides are applied on top of the defaults.
func New(logger zerolog.Logger) *Game {
	wc := config.GetWindowConfig()
	sc := config.GetSimConfig()

	cfg := sim.DefaultConfig()
	if sc.Seed != 0 {
		cfg.World.Seed = sc.Seed
	}
	if sc.Extent > 0 {
		cfg.World.Extent = sc.Extent
	}
	if sc.MaxBuildings > 0 {
		cfg.World.MaxBuildings = sc.MaxBuildings
	}

	g := &Game{
		sim:      sim.New(cfg, sim.NewSimLog(false)),
		width:    wc.Width,
		height:   wc.Height,
		log:      logger,
		camZoom:  1.0,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		simSpeed: 1.0,

		visualsRequested: make(map[int]bool),
	}
	g.camX = g.sim.Vehicle.X
	g.camY = g.sim.Vehicle.Y

	// Ignition candidate selection prefers what the player can see.
	g.sim.SetVisibility(g.buildingVisible)

	g.sound = NewSoundManager(config.GetAudioConfig())
	if err := g.sound.Initialize(); err != nil {
		logger.Warn().Err(err).Msg("audio unavailable, continuing silent")
	}
	g.sim.Mission.OnMode = g.sound.OnMode
	g.sim.Mission.OnScore = g.sound.OnScore

	logger.Info().
		Int64("seed", cfg.World.Seed).
		Int("roads", len(g.sim.World.Roads)).
		Int("buildings", g.sim.Registry.Len()).
		Msg("world generated")

	return g
}

// buildingVisible reports whether any part of the building's footprint is
// inside the current viewport.
func (g *Game) buildingVisible(b *sim.Building) bool {
	minX, minY, maxX, maxY := g.viewportBounds()
	bb := b.Bounds
	return bb.MaxX >= minX && bb.MinX <= maxX && bb.MaxY >= minY && bb.MinY <= maxY
}

// viewportBounds returns the camera's world-space rectangle.
func (g *Game) viewportBounds() (minX, minY, maxX, maxY float64) {
	halfW := float64(g.width) / 2 / (pixelsPerUnit * g.camZoom)
	halfH := float64(g.height) / 2 / (pixelsPerUnit * g.camZoom)
	return g.camX - halfW, g.camY - halfH, g.camX + halfW, g.camY + halfH
}

// worldToScreen maps world coordinates to pixels under the current camera.
func (g *Game) worldToScreen(wx, wy float64) (float32, float32) {
	s := pixelsPerUnit * g.camZoom
	return float32((wx-g.camX)*s + float64(g.width)/2),
		float32((wy-g.camY)*s + float64(g.height)/2)
}

// screenToWorld inverts worldToScreen, for pointer picking.
func (g *Game) screenToWorld(px, py int) (float64, float64) {
	s := pixelsPerUnit * g.camZoom
	return (float64(px)-float64(g.width)/2)/s + g.camX,
		(float64(py)-float64(g.height)/2)/s + g.camY
}

func (g *Game) Update() error {
	g.handleInput()
	g.requestVisuals()

	if g.simSpeed <= 0 {
		return nil
	}

	// For speeds > 1 run multiple sim ticks per frame.
	// For speeds < 1 accumulate fractions.
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}

	// Camera trails the vehicle.
	g.camX += (g.sim.Vehicle.X - g.camX) * 0.15
	g.camY += (g.sim.Vehicle.Y - g.camY) * 0.15

	g.sound.SetSirenPitch(g.sim.Vehicle.Speed / g.sim.Config.Vehicle.MaxSpeed)
	return nil
}

// visualRequestsPerFrame throttles facade loading so a camera jump does
// not render a whole district's textures in one frame.
const visualRequestsPerFrame = 6

// requestVisuals issues facade loads for buildings entering the view.
// Each resolution is queued on the handle and swapped in at the sim's
// drain point, so the flat placeholder shows for at least one tick.
func (g *Game) requestVisuals() {
	issued := 0
	for _, b := range g.sim.Registry.All() {
		if g.visualsRequested[b.ID] || !g.buildingVisible(b) {
			continue
		}
		g.visualsRequested[b.ID] = true
		h := g.sim.Assets.Request(sim.AssetBuilding, b.ID)
		h.Resolve(buildingFacade(b))
		if issued++; issued >= visualRequestsPerFrame {
			return
		}
	}
}

// simTick runs one simulation tick from the current virtual hand state.
func (g *Game) simTick() {
	ev := sim.ControlEvent{
		HandPresent: true,
		HandOpen:    !g.handFist,
		X:           g.handX,
		Y:           g.handY,
		AimDX:       g.aimDX(),
		AimDY:       g.aimDY(),
	}
	g.sim.Update(tickDT, ev)
}

// aimDX/aimDY read the aim-nudge keys, radians per tick.
func (g *Game) aimDX() float64 {
	const step = 1.2 * tickDT
	d := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyJ) {
		d -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyL) {
		d += step
	}
	return d
}

func (g *Game) aimDY() float64 {
	const step = 1.2 * tickDT
	d := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyK) {
		d -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyI) {
		d += step
	}
	return d
}

// handleInput updates the virtual hand and processes edge-triggered keys.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// Virtual hand: steering and throttle ease toward the held direction
	// and recenter when released, approximating a hand drifting back to
	// neutral.
	const handRate = 2.5 * tickDT
	targetX, targetY := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		targetX = -0.5
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		targetX = 0.5
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		targetY = 0.5
	}
	g.handX = approachToward(g.handX, targetX, handRate)
	g.handY = approachToward(g.handY, targetY, handRate)

	// Holding S (or Down) closes the fist: full brake.
	g.handFist = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	// Space: cancel an active drone mission.
	if pressed(ebiten.KeySpace) {
		g.sim.Mission.Cancel()
	}

	// H: toggle HUD.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}

	// R: copy the debug report to the clipboard.
	if pressed(ebiten.KeyR) {
		g.copyReport()
	}

	// Camera zoom: mouse wheel or =/- keys.
	const zoomMin, zoomMax = 0.4, 4.0
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.camZoom *= math.Pow(1.12, wy)
	}
	if pressed(ebiten.KeyEqual) {
		g.camZoom *= 1.25
	}
	if pressed(ebiten.KeyMinus) {
		g.camZoom /= 1.25
	}
	if g.camZoom < zoomMin {
		g.camZoom = zoomMin
	}
	if g.camZoom > zoomMax {
		g.camZoom = zoomMax
	}

	// Sim speed controls: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for i, s := range speeds {
			if s <= g.simSpeed && i < len(speeds)-1 {
				if speeds[i+1] > g.simSpeed {
					g.simSpeed = speeds[i+1]
					break
				}
			}
		}
	}

	// Left click: ignite the building under the cursor (debug tool).
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.prevMouseLeft {
			mx, my := ebiten.CursorPosition()
			g.handleIgniteClick(mx, my)
		}
	}
	g.prevMouseLeft = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	g.prevKeys = currentKeys
}

// handleIgniteClick ignites the clicked building, if any. Wrong-state
// clicks are silent no-ops, same as the scheduler's own races.
func (g *Game) handleIgniteClick(px, py int) {
	wx, wy := g.screenToWorld(px, py)
	for _, b := range g.sim.Registry.All() {
		if b.Bounds.ContainsXY(wx, wy) {
			if g.sim.Scheduler.Ignite(b) {
				g.log.Debug().Int("building", b.ID).Msg("manual ignition")
			}
			return
		}
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// approachToward moves cur toward target by at most step.
func approachToward(cur, target, step float64) float64 {
	if cur < target {
		cur += step
		if cur > target {
			cur = target
		}
	} else if cur > target {
		cur -= step
		if cur < target {
			cur = target
		}
	}
	return cur
}
