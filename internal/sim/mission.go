package sim

import (
	"fmt"
	"math"
)

// Mode is the top-level mission state.
type Mode int

const (
	ModeDriving      Mode = iota // manual control
	ModeFlyingToFire             // drone en route to the hover point
	ModeExtinguishing            // drone hovering, water on
)

func (m Mode) String() string {
	switch m {
	case ModeDriving:
		return "driving"
	case ModeFlyingToFire:
		return "flying_to_fire"
	case ModeExtinguishing:
		return "extinguishing"
	default:
		return "unknown"
	}
}

// DispatchPolicy decides which of several burning buildings wins when the
// vehicle stops with more than one in the forward cone.
type DispatchPolicy int

const (
	DispatchNearest DispatchPolicy = iota // closest to the vehicle (default)
	DispatchOldest                        // earliest ignition still burning
)

// MissionConfig tunes dispatch, drone flight and extinguishing.
type MissionConfig struct {
	UnlockSpeed   float64 // one-time capability gate: min speed ever reached
	ConeHalfAngle float64 // forward scan half-angle, radians
	ConeRange     float64 // forward scan reach

	DroneSpeed     float64 // units/s toward the hover point
	HoverClearance float64 // height above the target roofline
	HoverEpsilon   float64 // proximity at which hovering counts as reached
	LaunchHeight   float64 // drone height when sitting on the vehicle

	ExtinguishTime float64 // seconds of accumulated hits to put a fire out
	NozzleHeight   float64 // vehicle nozzle height above ground
	NozzleRange    float64 // close-range ground attack reach, no drone needed

	ScoreBonus   int // awarded per extinguished building
	ScorePenalty int // deducted when the active target burns down

	Policy DispatchPolicy
}

// DefaultMissionConfig mirrors the reference tuning: 5 s extinguish hold,
// +100 per save, -50 per lost target.
var DefaultMissionConfig = MissionConfig{
	UnlockSpeed:    5,
	ConeHalfAngle:  60 * math.Pi / 180,
	ConeRange:      220,
	DroneSpeed:     25,
	HoverClearance: 12,
	HoverEpsilon:   1.5,
	LaunchHeight:   3,
	ExtinguishTime: 5,
	NozzleHeight:   2.5,
	NozzleRange:    30,
	ScoreBonus:     100,
	ScorePenalty:   50,
	Policy:         DispatchNearest,
}

// Drone is the aerial unit's pose. The mission controller is its only
// writer; the render host reads it for transforms.
type Drone struct {
	X, Y, Z float64
	Heading float64
}

// Mission is the top-level mode controller coordinating manual driving,
// drone dispatch and extinguishing. It is the single writer of the mode.
type Mission struct {
	cfg     MissionConfig
	vehicle *Vehicle
	sched   *FireScheduler
	log     *SimLog

	mode       Mode
	target     *Building
	hold       float64 // accumulated extinguish hold, seconds
	score      int
	unlocked   bool // capability gate: vehicle has reached UnlockSpeed once
	dispatched bool // latched per stop; cleared once the vehicle moves again

	drone     Drone
	droneAim  *Aim
	nozzleAim *Aim

	// Ground-spray state, active only while driving and stopped.
	nozzleTarget *Building
	nozzleHold   float64

	tick int

	// OnScore receives score deltas and the new total; OnMode receives
	// mode changes. Both are observational sinks and may be nil.
	OnScore func(delta, total int)
	OnMode  func(Mode)
}

// NewMission wires the controller to the vehicle and scheduler. It hooks
// the scheduler's destruction path so losing the active target is noticed
// the moment the timeout fires.
func NewMission(v *Vehicle, fs *FireScheduler, aimCfg AimConfig, cfg MissionConfig, log *SimLog) *Mission {
	m := &Mission{
		cfg:       cfg,
		vehicle:   v,
		sched:     fs,
		log:       log,
		mode:      ModeDriving,
		droneAim:  NewAim(aimCfg),
		nozzleAim: NewAim(aimCfg),
		drone:     Drone{X: v.X, Y: v.Y, Z: cfg.LaunchHeight, Heading: v.Heading},
	}
	prev := fs.OnDestroyed
	fs.OnDestroyed = func(b *Building) {
		if prev != nil {
			prev(b)
		}
		m.notifyDestroyed(b)
	}
	return m
}

// Mode returns the current mission mode.
func (m *Mission) Mode() Mode { return m.mode }

// Target returns the active mission target, or nil.
func (m *Mission) Target() *Building { return m.target }

// Score returns the current score. Never negative.
func (m *Mission) Score() int { return m.score }

// Unlocked reports whether the capability gate has been passed.
func (m *Mission) Unlocked() bool { return m.unlocked }

// Progress returns extinguish hold progress in [0,1] for whichever
// emitter is spraying.
func (m *Mission) Progress() float64 {
	if m.cfg.ExtinguishTime <= 0 {
		return 0
	}
	h := m.hold
	if m.nozzleAim.Active() {
		h = m.nozzleHold
	}
	return clamp(h/m.cfg.ExtinguishTime, 0, 1)
}

// DronePose returns the drone's current pose.
func (m *Mission) DronePose() Drone { return m.drone }

// NozzleAim returns the vehicle-mounted emitter.
func (m *Mission) NozzleAim() *Aim { return m.nozzleAim }

// DroneAim returns the drone-mounted emitter.
func (m *Mission) DroneAim() *Aim { return m.droneAim }

// ActiveAim returns whichever emitter is spraying, or nil.
func (m *Mission) ActiveAim() *Aim {
	if m.droneAim.Active() {
		return m.droneAim
	}
	if m.nozzleAim.Active() {
		return m.nozzleAim
	}
	return nil
}

// SprayTarget returns the building currently under spray, or nil.
func (m *Mission) SprayTarget() *Building {
	if m.droneAim.Active() {
		return m.target
	}
	if m.nozzleAim.Active() {
		return m.nozzleTarget
	}
	return nil
}

// Update runs one mission evaluation. Called after motion, collision and
// the scheduler drain, so it observes this tick's settled vehicle and
// fire state.
func (m *Mission) Update(dt float64, tick int) {
	m.tick = tick
	v := m.vehicle

	if !m.unlocked && v.Speed >= m.cfg.UnlockSpeed {
		m.unlocked = true
		m.log.Add(tick, "VEH", "mission", "capability_unlocked", fmt.Sprintf("speed %.1f", v.Speed), v.Speed)
	}
	if v.Speed > 0.01 {
		m.dispatched = false
	}

	// The nozzle rides the vehicle regardless of mode.
	m.nozzleAim.SetEmitter(v.X, v.Y, m.cfg.NozzleHeight, v.Heading)

	switch m.mode {
	case ModeDriving:
		m.groundSprayStep(dt)
		if m.nozzleTarget == nil && v.Speed == 0 && m.unlocked && !m.dispatched {
			if b := m.selectTarget(); b != nil {
				m.dispatch(b)
			}
		}
	case ModeFlyingToFire:
		if m.target == nil || m.target.State() != StateBurning {
			m.revert("target no longer burning")
			return
		}
		m.flyToward(dt)
	case ModeExtinguishing:
		if m.target == nil || m.target.State() != StateBurning {
			m.revert("target no longer burning")
			return
		}
		m.extinguishStep(dt)
	}
}

// groundSprayStep runs the close-range attack: stopped beside a burning
// building inside NozzleRange, the vehicle nozzle engages it directly.
// The capability gate does not apply; the nozzle works before the drone
// is unlocked. Fires beyond nozzle reach are left to dispatch.
func (m *Mission) groundSprayStep(dt float64) {
	v := m.vehicle
	if v.Speed > 0.01 {
		if m.nozzleTarget != nil {
			m.stopGroundSpray("vehicle moving")
		}
		return
	}

	if m.nozzleTarget == nil {
		var best *Building
		bestDist := m.cfg.NozzleRange
		for _, b := range m.sched.Burning() {
			if d := dist2D(v.X, v.Y, b.X, b.Y); d <= bestDist {
				best = b
				bestDist = d
			}
		}
		if best == nil {
			return
		}
		m.nozzleTarget = best
		m.nozzleHold = 0
		m.nozzleAim.AimAt(best)
		m.activateAim(m.nozzleAim)
		m.log.Add(m.tick, buildingLabel(best), "mission", "nozzle_engaged",
			fmt.Sprintf("dist %.0f", dist2D(v.X, v.Y, best.X, best.Y)), 0)
	}

	b := m.nozzleTarget
	if b.State() != StateBurning {
		m.stopGroundSpray("target no longer burning")
		return
	}
	if !m.nozzleAim.Hitting(b) {
		return
	}
	m.nozzleHold += dt
	if ep := m.sched.Episode(b); ep != nil {
		ep.Intensity = clamp(1-m.nozzleHold/m.cfg.ExtinguishTime, 0, 1)
	}
	if m.nozzleHold < m.cfg.ExtinguishTime {
		return
	}

	m.sched.Extinguish(b)
	b.markSaved()
	m.addScore(m.cfg.ScoreBonus)
	m.log.Add(m.tick, buildingLabel(b), "mission", "extinguished", "nozzle attack", float64(m.score))
	m.nozzleTarget = nil
	m.nozzleHold = 0
	m.nozzleAim.Deactivate()
}

// stopGroundSpray secures the nozzle, restoring the fire to full
// intensity when the episode is still alive.
func (m *Mission) stopGroundSpray(reason string) {
	if ep := m.sched.Episode(m.nozzleTarget); ep != nil {
		ep.Intensity = 1
	}
	m.log.Add(m.tick, buildingLabel(m.nozzleTarget), "mission", "nozzle_secured", reason, 0)
	m.nozzleTarget = nil
	m.nozzleHold = 0
	m.nozzleAim.Deactivate()
}

// selectTarget scans burning buildings inside the forward cone and picks
// per the dispatch policy. Returns nil when none qualify.
func (m *Mission) selectTarget() *Building {
	v := m.vehicle
	inCone := func(b *Building) (float64, bool) {
		d := dist2D(v.X, v.Y, b.X, b.Y)
		if d > m.cfg.ConeRange || d < 1e-6 {
			return 0, false
		}
		diff := normalizeAngle(HeadingTo(v.X, v.Y, b.X, b.Y) - v.Heading)
		if math.Abs(diff) > m.cfg.ConeHalfAngle {
			return 0, false
		}
		return d, true
	}

	if m.cfg.Policy == DispatchOldest {
		for _, ep := range m.sched.Episodes() {
			if _, ok := inCone(ep.Building); ok {
				return ep.Building
			}
		}
		return nil
	}

	var best *Building
	bestDist := math.MaxFloat64
	for _, b := range m.sched.Burning() {
		if d, ok := inCone(b); ok && d < bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

func (m *Mission) dispatch(b *Building) {
	m.target = b
	m.dispatched = true
	m.hold = 0
	v := m.vehicle
	m.drone = Drone{X: v.X, Y: v.Y, Z: m.cfg.LaunchHeight, Heading: v.Heading}
	m.setMode(ModeFlyingToFire)
	m.log.Add(m.tick, buildingLabel(b), "mission", "dispatch", fmt.Sprintf("drone launched, dist %.0f", dist2D(v.X, v.Y, b.X, b.Y)), 0)
}

// hoverPoint is the stabilization position above the target's roofline.
func (m *Mission) hoverPoint(b *Building) (x, y, z float64) {
	cx, cy, _ := b.Bounds.Center()
	return cx, cy, b.RoofZ() + m.cfg.HoverClearance
}

func (m *Mission) flyToward(dt float64) {
	hx, hy, hz := m.hoverPoint(m.target)
	dx := hx - m.drone.X
	dy := hy - m.drone.Y
	dz := hz - m.drone.Z
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	if dist <= m.cfg.HoverEpsilon {
		m.drone.X, m.drone.Y, m.drone.Z = hx, hy, hz
		m.beginExtinguishing()
		return
	}

	step := m.cfg.DroneSpeed * dt
	if step >= dist {
		m.drone.X, m.drone.Y, m.drone.Z = hx, hy, hz
		m.beginExtinguishing()
		return
	}
	m.drone.X += dx / dist * step
	m.drone.Y += dy / dist * step
	m.drone.Z += dz / dist * step
	m.drone.Heading = HeadingTo(m.drone.X, m.drone.Y, hx, hy)
}

func (m *Mission) beginExtinguishing() {
	m.setMode(ModeExtinguishing)
	m.droneAim.SetEmitter(m.drone.X, m.drone.Y, m.drone.Z, m.drone.Heading)
	m.droneAim.AimAt(m.target)
	m.activateAim(m.droneAim)
}

func (m *Mission) extinguishStep(dt float64) {
	m.droneAim.SetEmitter(m.drone.X, m.drone.Y, m.drone.Z, m.drone.Heading)

	if !m.droneAim.Hitting(m.target) {
		return
	}
	m.hold += dt
	if ep := m.sched.Episode(m.target); ep != nil {
		ep.Intensity = clamp(1-m.hold/m.cfg.ExtinguishTime, 0, 1)
	}
	if m.hold < m.cfg.ExtinguishTime {
		return
	}

	b := m.target
	m.sched.Extinguish(b)
	b.markSaved()
	m.addScore(m.cfg.ScoreBonus)
	m.log.Add(m.tick, buildingLabel(b), "mission", "extinguished", "building saved", float64(m.score))
	m.clearTo(ModeDriving)
}

// Cancel handles the external cancellation gesture. Valid in any mode;
// repeated cancellation is a no-op. While driving it secures an engaged
// nozzle and otherwise does nothing.
func (m *Mission) Cancel() {
	if m.mode == ModeDriving {
		if m.nozzleTarget != nil {
			m.stopGroundSpray("cancelled")
		}
		return
	}
	m.revert("cancelled")
}

// notifyDestroyed runs when the scheduler's burn timeout fires. Losing
// the active mission target costs points and forces a return to driving.
func (m *Mission) notifyDestroyed(b *Building) {
	if m.mode == ModeDriving || b != m.target {
		return
	}
	m.addScore(-m.cfg.ScorePenalty)
	m.log.Add(m.tick, buildingLabel(b), "mission", "target_lost", "destroyed while dispatched", float64(m.score))
	m.clearTo(ModeDriving)
}

// revert returns to driving without awarding points, restoring the fire
// visual to full intensity if the episode is still alive.
func (m *Mission) revert(reason string) {
	if ep := m.sched.Episode(m.target); ep != nil {
		ep.Intensity = 1
	}
	m.log.Add(m.tick, buildingLabel(m.target), "mission", "revert", reason, 0)
	m.clearTo(ModeDriving)
}

// clearTo drops the target, stops any spray and enters the given mode.
func (m *Mission) clearTo(mode Mode) {
	m.target = nil
	m.hold = 0
	m.droneAim.Deactivate()
	m.nozzleAim.Deactivate()
	m.setMode(mode)
}

// activateAim makes the given emitter the single active one system-wide.
func (m *Mission) activateAim(a *Aim) {
	m.droneAim.Deactivate()
	m.nozzleAim.Deactivate()
	a.Activate()
}

func (m *Mission) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.log.Add(m.tick, "--", "mission", "mode", fmt.Sprintf("%s → %s", m.mode, mode), 0)
	m.mode = mode
	if m.OnMode != nil {
		m.OnMode(mode)
	}
}

func (m *Mission) addScore(delta int) {
	m.score += delta
	if m.score < 0 {
		m.score = 0
	}
	if m.OnScore != nil {
		m.OnScore(delta, m.score)
	}
	m.log.Add(m.tick, "--", "score", "delta", fmt.Sprintf("%+d → %d", delta, m.score), float64(m.score))
}
