package sim

import "math"

// VehicleConfig holds the motion model tuning.
type VehicleConfig struct {
	MaxSpeed float64 // units/s
	Accel    float64 // units/s² toward a higher target speed
	Decel    float64 // units/s² toward a lower target speed; > Accel, braking wins

	MaxSteer      float64 // steering lock, radians
	SteerDeadband float64 // steering intensity below which no turn braking applies
	TurnBrake     float64 // extra deceleration at full lock, units/s²
	TurnRateGain  float64 // heading change per unit steer per second at full speed
	TurnRateFloor float64 // fraction of TurnRateGain retained at standstill

	CollisionRadius float64 // vehicle body circle for building collision
	Restitution     float64 // speed retained after a bounce
}

// DefaultVehicleConfig mirrors the reference handling: braking roughly
// twice as strong as throttle, a soft bounce off buildings.
var DefaultVehicleConfig = VehicleConfig{
	MaxSpeed:        40,
	Accel:           12,
	Decel:           26,
	MaxSteer:        0.55,
	SteerDeadband:   0.08,
	TurnBrake:       9,
	TurnRateGain:    2.2,
	TurnRateFloor:   0.35,
	CollisionRadius: 3.5,
	Restitution:     0.7,
}

// Vehicle is the response unit's motion state. Update mutates it once per
// tick; everything else only reads. Speed never goes negative: there is
// no reverse gear.
type Vehicle struct {
	X, Y        float64
	Heading     float64 // radians, 0 = +X
	Speed       float64
	TargetSpeed float64
	Steer       float64 // radians, clamped to ±MaxSteer

	cfg VehicleConfig
}

// NewVehicle creates a stationary vehicle at (x,y) facing heading.
func NewVehicle(x, y, heading float64, cfg VehicleConfig) *Vehicle {
	return &Vehicle{X: x, Y: y, Heading: heading, cfg: cfg}
}

// Config returns the motion tuning in use.
func (v *Vehicle) Config() VehicleConfig { return v.cfg }

// SetControls maps normalized throttle and steer in [-1,1] onto the motion
// targets. Negative throttle means brake, not reverse.
func (v *Vehicle) SetControls(throttle, steer float64) {
	v.TargetSpeed = clamp(throttle, 0, 1) * v.cfg.MaxSpeed
	v.Steer = clamp(steer, -1, 1) * v.cfg.MaxSteer
}

// Update advances speed, heading and position by dt seconds. The caller
// guarantees dt is finite and non-negative; this model is pure state
// transformation and does not validate.
func (v *Vehicle) Update(dt float64) {
	intensity := math.Abs(v.Steer) / v.cfg.MaxSteer

	if intensity > v.cfg.SteerDeadband {
		// Hard turn: no acceleration, and braking scales with how hard
		// the wheel is over, on top of any target-speed deceleration.
		target := math.Min(v.TargetSpeed, v.Speed)
		v.Speed = approach(v.Speed, target, v.cfg.Decel*dt)
		v.Speed = math.Max(0, v.Speed-v.cfg.TurnBrake*intensity*dt)
	} else if v.TargetSpeed > v.Speed {
		v.Speed = approach(v.Speed, v.TargetSpeed, v.cfg.Accel*dt)
	} else {
		v.Speed = approach(v.Speed, v.TargetSpeed, v.cfg.Decel*dt)
	}

	// Steering stays effective near standstill via the floor, grows with
	// speed up to the design maximum.
	turnScale := v.cfg.TurnRateFloor + (1-v.cfg.TurnRateFloor)*math.Min(1, v.Speed/v.cfg.MaxSpeed)
	v.Heading = normalizeAngle(v.Heading + v.Steer*v.cfg.TurnRateGain*turnScale*dt)

	v.X += math.Cos(v.Heading) * v.Speed * dt
	v.Y += math.Sin(v.Heading) * v.Speed * dt
}

// approach moves cur toward target by at most step, never overshooting.
func approach(cur, target, step float64) float64 {
	if cur < target {
		return math.Min(cur+step, target)
	}
	return math.Max(cur-step, target)
}

// ResolveCollision checks the vehicle circle against every standing
// building and resolves at most one contact: push out along the
// separation normal, reflect the velocity about it and keep Restitution
// of the speed. Returns the building hit, or nil.
func (v *Vehicle) ResolveCollision(reg *Registry) *Building {
	for _, b := range reg.All() {
		if b.State() == StateDestroyed {
			continue
		}
		cx, cy := b.Bounds.ClosestXY(v.X, v.Y)
		dx := v.X - cx
		dy := v.Y - cy
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist >= v.cfg.CollisionRadius {
			continue
		}

		var nx, ny float64
		if dist > 1e-9 {
			nx, ny = dx/dist, dy/dist
		} else {
			// Centre inside the footprint: eject through the nearest face.
			best := v.X - b.Bounds.MinX
			nx, ny, cx, cy = -1, 0, b.Bounds.MinX, v.Y
			if d := b.Bounds.MaxX - v.X; d < best {
				best, nx, ny, cx, cy = d, 1, 0, b.Bounds.MaxX, v.Y
			}
			if d := v.Y - b.Bounds.MinY; d < best {
				best, nx, ny, cx, cy = d, 0, -1, v.X, b.Bounds.MinY
			}
			if d := b.Bounds.MaxY - v.Y; d < best {
				nx, ny, cx, cy = 0, 1, v.X, b.Bounds.MaxY
			}
		}

		// Separate by the penetration depth.
		v.X = cx + nx*v.cfg.CollisionRadius
		v.Y = cy + ny*v.cfg.CollisionRadius

		// Reflect the velocity about the contact normal.
		vx := math.Cos(v.Heading) * v.Speed
		vy := math.Sin(v.Heading) * v.Speed
		dot := vx*nx + vy*ny
		rx := vx - 2*dot*nx
		ry := vy - 2*dot*ny
		if rx != 0 || ry != 0 {
			v.Heading = math.Atan2(ry, rx)
		}
		v.Speed *= v.cfg.Restitution
		return b
	}
	return nil
}
