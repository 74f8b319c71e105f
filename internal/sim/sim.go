// Package sim implements the fire-response simulation core: procedural
// city generation, the per-building fire lifecycle, the vehicle motion
// model and the mission controller. It is host-agnostic: rendering,
// audio and the gesture source talk to it only through the narrow
// surfaces on Sim (control events, visibility predicate, asset handles,
// score/mode sinks).
package sim

import (
	"fmt"
	"math/rand"
	"time"
)

// Config aggregates every component's tuning.
type Config struct {
	World   WorldConfig
	Fire    FireConfig
	Vehicle VehicleConfig
	Aim     AimConfig
	Control ControlConfig
	Mission MissionConfig
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		World:   DefaultWorldConfig,
		Fire:    DefaultFireConfig,
		Vehicle: DefaultVehicleConfig,
		Aim:     DefaultAimConfig,
		Control: DefaultControlConfig,
		Mission: DefaultMissionConfig,
	}
}

// Sim owns the world state and runs the cooperative per-frame tick. One
// logical update per rendered frame, driven by the host's delta time; no
// component spawns goroutines of its own. Within a tick the order is
// fixed: controls → motion → collision → asset completions → fire timers
// → mission evaluation, so every stage reads fully settled state.
type Sim struct {
	Config    Config
	World     *World
	Registry  *Registry
	Vehicle   *Vehicle
	Scheduler *FireScheduler
	Mission   *Mission
	Assets    *AssetPool
	Log       *SimLog

	rng  *rand.Rand
	tick int
}

// New generates the world for cfg and assembles the simulation. The
// vehicle starts at the world origin, which the road lattice guarantees
// is on a road.
func New(cfg Config, log *SimLog) *Sim {
	if log == nil {
		log = NewSimLog(false)
	}
	world := GenerateWorld(cfg.World)
	rng := NewRand(cfg.World.Seed)
	vehicle := NewVehicle(0, 0, 0, cfg.Vehicle)
	sched := NewFireScheduler(world.Buildings, rng, cfg.Fire, log)
	mission := NewMission(vehicle, sched, cfg.Aim, cfg.Mission, log)

	s := &Sim{
		Config:    cfg,
		World:     world,
		Registry:  world.Buildings,
		Vehicle:   vehicle,
		Scheduler: sched,
		Mission:   mission,
		Assets:    NewAssetPool(),
		Log:       log,
		rng:       rng,
	}
	log.Add(0, "--", "world", "generated",
		fmt.Sprintf("%d roads, %d buildings, seed %d", len(world.Roads), world.Buildings.Len(), cfg.World.Seed),
		float64(world.Buildings.Len()))
	return s
}

// Tick returns the number of completed updates.
func (s *Sim) Tick() int { return s.tick }

// SetVisibility injects the render host's view-frustum predicate used by
// ignition candidate selection.
func (s *Sim) SetVisibility(fn func(*Building) bool) {
	s.Scheduler.Visible = fn
}

// Update advances the simulation by dt seconds given this frame's control
// event. Gesture cancellation (hand withdrawn mid-mission) is handled by
// the host calling Mission.Cancel; a missing hand here only brakes.
func (s *Sim) Update(dt float64, ev ControlEvent) {
	s.tick++

	c := MapControls(ev, s.Config.Control)
	s.Vehicle.SetControls(c.Throttle, c.Steer)
	if a := s.Mission.ActiveAim(); a != nil {
		a.Adjust(ev.AimDX, ev.AimDY)
	}

	s.Vehicle.Update(dt)
	if b := s.Vehicle.ResolveCollision(s.Registry); b != nil {
		s.Log.AddVerbose(s.tick, buildingLabel(b), "vehicle", "collision",
			"bounced", s.Vehicle.Speed)
	}

	s.Assets.Drain(s.applyVisual)
	s.Scheduler.Advance(time.Duration(dt*float64(time.Second)), s.tick)
	s.Mission.Update(dt, s.tick)

	s.Log.AddVerbose(s.tick, "VEH", "vehicle", "state",
		"", s.Vehicle.Speed)
}

// applyVisual swaps a placeholder for a freshly loaded visual. Lifecycle
// state is untouched: the visual reference is the only field written.
func (s *Sim) applyVisual(kind AssetKind, id int, visual any) {
	if kind != AssetBuilding {
		return
	}
	if b := s.Registry.Get(id); b != nil {
		b.Visual = visual
		s.Log.AddVerbose(s.tick, buildingLabel(b), "asset", "resolved", "", 0)
	}
}
