package sim

import "math"

// AimConfig holds the operator limits and the hit-test geometry shared by
// the vehicle nozzle and the drone.
type AimConfig struct {
	YawMin, YawMax     float64 // radians relative to the emitter body
	PitchMin, PitchMax float64
	MaxRange           float64 // spray reach
	HitRadius          float64 // perpendicular tolerance around the aim ray
}

// DefaultAimConfig: the nozzle sweeps ±70° and from straight down to 45°
// up, with the reference spray reach.
var DefaultAimConfig = AimConfig{
	YawMin:    -70 * math.Pi / 180,
	YawMax:    70 * math.Pi / 180,
	PitchMin:  -math.Pi / 2,
	PitchMax:  45 * math.Pi / 180,
	MaxRange:  90,
	HitRadius: 8,
}

// Aim is one water emitter: a pose plus clamped yaw/pitch and an active
// flag. Deactivating stops the effect without losing the configuration.
// Exactly one Aim is active at a time system-wide; the mission controller
// enforces that.
type Aim struct {
	cfg AimConfig

	// Emitter pose, set by the owner (vehicle nozzle or drone body).
	X, Y, Z float64
	BaseYaw float64 // emitter body orientation; aim yaw is relative to it

	Yaw, Pitch float64
	active     bool
}

// NewAim creates an inactive emitter.
func NewAim(cfg AimConfig) *Aim {
	return &Aim{cfg: cfg}
}

// SetEmitter positions the emitter and sets its body orientation.
func (a *Aim) SetEmitter(x, y, z, baseYaw float64) {
	a.X, a.Y, a.Z, a.BaseYaw = x, y, z, baseYaw
}

// SetAngles sets yaw and pitch, clamped to the operator ranges.
func (a *Aim) SetAngles(yaw, pitch float64) {
	a.Yaw = clamp(yaw, a.cfg.YawMin, a.cfg.YawMax)
	a.Pitch = clamp(pitch, a.cfg.PitchMin, a.cfg.PitchMax)
}

// Adjust nudges yaw and pitch by deltas, clamped to the operator ranges.
func (a *Aim) Adjust(dYaw, dPitch float64) {
	a.SetAngles(a.Yaw+dYaw, a.Pitch+dPitch)
}

// Activate starts the effect.
func (a *Aim) Activate() { a.active = true }

// Deactivate stops the effect; yaw/pitch and pose are kept.
func (a *Aim) Deactivate() { a.active = false }

// Active reports whether the emitter is spraying.
func (a *Aim) Active() bool { return a.active }

// Forward returns the world-space aim direction derived from yaw/pitch.
func (a *Aim) Forward() (fx, fy, fz float64) {
	yaw := a.BaseYaw + a.Yaw
	cp := math.Cos(a.Pitch)
	return cp * math.Cos(yaw), cp * math.Sin(yaw), math.Sin(a.Pitch)
}

// AimAt points the emitter at the building's centre, clamped to the
// operator ranges; a target outside them stays un-hittable.
func (a *Aim) AimAt(b *Building) {
	tx, ty, tz := b.Bounds.Center()
	dx, dy, dz := tx-a.X, ty-a.Y, tz-a.Z
	yaw := normalizeAngle(math.Atan2(dy, dx) - a.BaseYaw)
	pitch := math.Atan2(dz, math.Sqrt(dx*dx+dy*dy))
	a.SetAngles(yaw, pitch)
}

// Hitting reports whether the aim ray strikes the building: the vector to
// the target centre is projected onto the aim direction; the projection
// must fall within [0, MaxRange] and the perpendicular distance from the
// centre to the ray within HitRadius.
func (a *Aim) Hitting(b *Building) bool {
	if b == nil {
		return false
	}
	tx, ty, tz := b.Bounds.Center()
	dx, dy, dz := tx-a.X, ty-a.Y, tz-a.Z
	fx, fy, fz := a.Forward()

	t := dx*fx + dy*fy + dz*fz
	if t < 0 || t > a.cfg.MaxRange {
		return false
	}
	px := dx - fx*t
	py := dy - fy*t
	pz := dz - fz*t
	return math.Sqrt(px*px+py*py+pz*pz) <= a.cfg.HitRadius
}
