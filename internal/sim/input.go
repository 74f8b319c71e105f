package sim

import "math"

// ControlEvent is one frame of input from the external control source
// (the gesture recognizer, or the keyboard stand-in). Positions are
// normalized to [-0.5, 0.5]²: X steers, Y is throttle (up = forward).
type ControlEvent struct {
	HandPresent bool
	HandOpen    bool // open palm drives; a fist brakes
	X, Y        float64

	// AimDX/AimDY are delta motions applied to the active emitter's
	// yaw/pitch while aiming.
	AimDX, AimDY float64
}

// ControlConfig tunes the control mapping.
type ControlConfig struct {
	DeadZone         float64 // normalized units around neutral that are ignored
	SteerThrottleCut float64 // throttle lost at full steer, in [0,1]
}

// DefaultControlConfig uses the reference ~0.20 dead-zone.
var DefaultControlConfig = ControlConfig{
	DeadZone:         0.20,
	SteerThrottleCut: 0.5,
}

// Controls is the normalized output fed to the vehicle: throttle and steer
// in [-1,1]. Negative throttle brakes.
type Controls struct {
	Throttle float64
	Steer    float64
}

// MapControls turns a control event into throttle and steer. A missing
// hand, or a closed fist, is an implicit full brake, not an error. The
// dead-zone stabilizes neutral, and throttle is reduced proportionally to
// steering magnitude so hard turns shed speed at the input stage too.
func MapControls(ev ControlEvent, cfg ControlConfig) Controls {
	if !ev.HandPresent || !ev.HandOpen {
		return Controls{Throttle: -1}
	}
	steer := deadZoned(ev.X, cfg.DeadZone)
	throttle := deadZoned(ev.Y, cfg.DeadZone)
	throttle *= 1 - cfg.SteerThrottleCut*math.Abs(steer)
	return Controls{Throttle: throttle, Steer: steer}
}

// deadZoned maps a normalized position in [-0.5,0.5] to [-1,1], with the
// dead-zone removed and the remaining range rescaled so output still
// reaches ±1 at full deflection.
func deadZoned(v, zone float64) float64 {
	half := zone / 2
	if math.Abs(v) <= half {
		return 0
	}
	span := 0.5 - half
	if v > 0 {
		return math.Min(1, (v-half)/span)
	}
	return math.Max(-1, (v+half)/span)
}
