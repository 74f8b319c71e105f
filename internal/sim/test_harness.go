package sim

// TestSim is a headless simulation harness used exclusively by tests.
// It wraps Sim with deterministic seeding, synthetic control input and
// direct access to the structured SimLog — no render host involved.
type TestSim struct {
	Sim    *Sim
	SimLog *SimLog
}

// tickDT is the fixed per-tick delta used by the harness, matching the
// host's 60 Hz frame pacing.
const tickDT = 1.0 / 60.0

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptConfig   simOptionKind = iota // tuning overrides — applied before generation
	simOptScenario                      // world/vehicle/fire setup — applied after construction
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Config, *TestSim)
}

// WithSeed sets the world/scheduler RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptConfig, func(cfg *Config, _ *TestSim) {
		cfg.World.Seed = seed
	}}
}

// WithExtent sets the world half-size.
func WithExtent(extent float64) SimOption {
	return SimOption{simOptConfig, func(cfg *Config, _ *TestSim) {
		cfg.World.Extent = extent
	}}
}

// WithMaxBuildings caps generation; 0 gives a road-only world that tests
// can populate by hand with WithBuilding.
func WithMaxBuildings(n int) SimOption {
	return SimOption{simOptConfig, func(cfg *Config, _ *TestSim) {
		cfg.World.MaxBuildings = n
	}}
}

// WithConfig applies an arbitrary tuning override.
func WithConfig(fn func(*Config)) SimOption {
	return SimOption{simOptConfig, func(cfg *Config, _ *TestSim) {
		fn(cfg)
	}}
}

// WithBuilding adds a hand-placed dwelling centred at (x,y) with the
// given footprint and height. IDs continue from the generated set.
func WithBuilding(x, y, w, d, h float64) SimOption {
	return SimOption{simOptScenario, func(_ *Config, ts *TestSim) {
		id := ts.Sim.Registry.Len()
		ts.Sim.Registry.Add(&Building{
			ID:   id,
			Kind: KindDwelling,
			X:    x,
			Y:    y,
			Bounds: AABB{
				MinX: x - w/2, MaxX: x + w/2,
				MinY: y - d/2, MaxY: y + d/2,
				MinZ: 0, MaxZ: h,
			},
		})
	}}
}

// WithVehicleAt places the vehicle.
func WithVehicleAt(x, y, heading float64) SimOption {
	return SimOption{simOptScenario, func(_ *Config, ts *TestSim) {
		ts.Sim.Vehicle.X = x
		ts.Sim.Vehicle.Y = y
		ts.Sim.Vehicle.Heading = heading
	}}
}

// WithBurning ignites the building with the given ID immediately.
func WithBurning(id int) SimOption {
	return SimOption{simOptScenario, func(_ *Config, ts *TestSim) {
		ts.Sim.Scheduler.Ignite(ts.Sim.Registry.Get(id))
	}}
}

// WithUnlocked pre-passes the capability gate, as if the vehicle had
// already reached the qualifying speed once.
func WithUnlocked() SimOption {
	return SimOption{simOptScenario, func(_ *Config, ts *TestSim) {
		ts.Sim.Mission.unlocked = true
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptConfig, func(_ *Config, ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// NewTestSim builds a headless simulation. Config options run first, then
// the world is generated, then scenario options run against it.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{}
	cfg := DefaultConfig()

	for _, o := range opts {
		if o.kind == simOptConfig {
			o.fn(&cfg, ts)
		}
	}
	if ts.SimLog == nil {
		ts.SimLog = NewSimLog(false)
	}
	ts.Sim = New(cfg, ts.SimLog)
	for _, o := range opts {
		if o.kind == simOptScenario {
			o.fn(&cfg, ts)
		}
	}
	return ts
}

// CurrentTick returns the number of completed ticks.
func (ts *TestSim) CurrentTick() int { return ts.Sim.Tick() }

// RunTicks advances n ticks with no hand present (implicit brake).
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Sim.Update(tickDT, ControlEvent{})
	}
}

// Drive advances n ticks with an open hand at the given normalized
// position (y = throttle, x = steer).
func (ts *TestSim) Drive(n int, x, y float64) {
	for i := 0; i < n; i++ {
		ts.Sim.Update(tickDT, ControlEvent{HandPresent: true, HandOpen: true, X: x, Y: y})
	}
}

// RunSeconds advances whole ticks until at least d seconds of sim time
// have elapsed, braking throughout.
func (ts *TestSim) RunSeconds(d float64) {
	n := int(d/tickDT) + 1
	ts.RunTicks(n)
}
