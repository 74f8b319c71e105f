package sim

import (
	"fmt"
	"math/rand"
	"time"
)

// FireConfig holds the fire lifecycle timings.
type FireConfig struct {
	IgniteDelayMin time.Duration // lower bound on the pause before a random ignition
	IgniteDelayMax time.Duration
	BurnTimeout    time.Duration // burning for this long destroys the building
}

// DefaultFireConfig mirrors the reference timings: ignitions every 8-15 s,
// destruction after 10 s of unattended burning.
var DefaultFireConfig = FireConfig{
	IgniteDelayMin: 8 * time.Second,
	IgniteDelayMax: 15 * time.Second,
	BurnTimeout:    10 * time.Second,
}

// FireEpisode is the lifetime of one fire on one building: created at
// ignition, dropped when the building leaves burning.
type FireEpisode struct {
	Building  *Building
	StartedAt time.Duration // sim clock at ignition
	Deadline  time.Duration // sim clock at which the building is destroyed

	// Intensity in [0,1] drives the fire visual. 1 at ignition; the
	// mission controller fades it toward 0 while extinguishing and
	// restores it on cancellation.
	Intensity float64
}

type fireEventKind int

const (
	fireEventIgnite fireEventKind = iota // pick a candidate and set it alight
	fireEventDestroy                     // burn timeout for a specific building
)

// fireEvent is one entry in the sim-clock timer queue.
type fireEvent struct {
	at       time.Duration
	kind     fireEventKind
	building int // target building ID; unused for ignite events
}

// FireScheduler runs the per-building fire state machine:
//
//	normal --(ignite)--> burning --(extinguish)--> extinguished
//	                     burning --(timeout)-----> destroyed
//
// Deadlines live in a timer queue keyed on the sim clock. The owning Sim
// advances the clock at a fixed point in every tick and due events fire
// there, never from a foreign goroutine, so state mutation stays inside
// the tick loop even when the host's wall clock drives the sim clock.
//
// Several buildings may burn at once; exactly one episode (the oldest
// ignition) is advertised as the current fire for UI purposes.
type FireScheduler struct {
	cfg      FireConfig
	registry *Registry
	rng      *rand.Rand
	log      *SimLog

	clock    time.Duration
	tick     int
	queue    []fireEvent    // sorted by at, FIFO among equals
	episodes []*FireEpisode // ignition order; index 0 is the current fire

	// Visible reports whether the render host currently has the building
	// in view; random ignition prefers visible candidates. May be nil.
	Visible func(*Building) bool

	// OnIgnited and OnDestroyed are notified after the state change has
	// been applied. Either may be nil.
	OnIgnited   func(*Building)
	OnDestroyed func(*Building)
}

// NewFireScheduler creates a scheduler over the registry and arms the
// first random ignition.
func NewFireScheduler(reg *Registry, rng *rand.Rand, cfg FireConfig, log *SimLog) *FireScheduler {
	fs := &FireScheduler{
		cfg:      cfg,
		registry: reg,
		rng:      rng,
		log:      log,
	}
	fs.scheduleIgnition()
	return fs
}

// Now returns the current sim clock.
func (fs *FireScheduler) Now() time.Duration { return fs.clock }

// Advance moves the sim clock forward and fires every due timer in order.
func (fs *FireScheduler) Advance(dt time.Duration, tick int) {
	fs.clock += dt
	fs.tick = tick
	for len(fs.queue) > 0 && fs.queue[0].at <= fs.clock {
		ev := fs.queue[0]
		fs.queue = fs.queue[1:]
		switch ev.kind {
		case fireEventIgnite:
			fs.igniteRandom()
		case fireEventDestroy:
			fs.destroy(fs.registry.Get(ev.building))
		}
	}
}

// scheduleIgnition arms the next random ignition after a randomized delay.
func (fs *FireScheduler) scheduleIgnition() {
	delay := randDuration(fs.rng, fs.cfg.IgniteDelayMin, fs.cfg.IgniteDelayMax)
	fs.push(fireEvent{at: fs.clock + delay, kind: fireEventIgnite})
	fs.log.Add(fs.tick, "--", "fire", "ignition_armed", fmt.Sprintf("in %s", delay.Round(time.Millisecond)), delay.Seconds())
}

// igniteRandom selects an ignition candidate among normal buildings,
// preferring ones the camera can see, and sets it alight. With no
// candidate at all it re-arms without igniting.
func (fs *FireScheduler) igniteRandom() {
	normal := fs.registry.InState(StateNormal)
	if len(normal) == 0 {
		fs.scheduleIgnition()
		return
	}
	candidates := normal
	if fs.Visible != nil {
		var visible []*Building
		for _, b := range normal {
			if fs.Visible(b) {
				visible = append(visible, b)
			}
		}
		if len(visible) > 0 {
			candidates = visible
		}
	}
	fs.Ignite(candidates[fs.rng.Intn(len(candidates))])
}

// Ignite transitions a specific building to burning, records the episode
// and arms its destruction deadline. Callable directly (pointer-pick)
// as well as from the random path. A building not in normal is left
// untouched and false is returned.
func (fs *FireScheduler) Ignite(b *Building) bool {
	if b == nil || !b.transition(StateNormal, StateBurning) {
		return false
	}
	ep := &FireEpisode{
		Building:  b,
		StartedAt: fs.clock,
		Deadline:  fs.clock + fs.cfg.BurnTimeout,
		Intensity: 1,
	}
	fs.episodes = append(fs.episodes, ep)
	fs.push(fireEvent{at: ep.Deadline, kind: fireEventDestroy, building: b.ID})
	fs.log.Add(fs.tick, buildingLabel(b), "fire", "ignite", "normal → burning", fs.clock.Seconds())
	if fs.OnIgnited != nil {
		fs.OnIgnited(b)
	}
	return true
}

// Extinguish ends a building's fire episode successfully: the destruction
// deadline is cancelled and the next random ignition is armed. Valid only
// while burning; anything else is a silent no-op returning false.
func (fs *FireScheduler) Extinguish(b *Building) bool {
	if b == nil || !b.transition(StateBurning, StateExtinguished) {
		return false
	}
	fs.cancelDestroy(b.ID)
	fs.dropEpisode(b)
	fs.log.Add(fs.tick, buildingLabel(b), "fire", "extinguish", "burning → extinguished", fs.clock.Seconds())
	fs.scheduleIgnition()
	return true
}

// destroy is the burn-timeout path: the building burns down, the external
// destroyed callback fires once, and the next ignition is armed.
func (fs *FireScheduler) destroy(b *Building) {
	if b == nil || !b.transition(StateBurning, StateDestroyed) {
		// Raced with an extinguish that landed this tick; nothing to do.
		return
	}
	fs.dropEpisode(b)
	fs.log.Add(fs.tick, buildingLabel(b), "fire", "destroy", "burning → destroyed", fs.clock.Seconds())
	if fs.OnDestroyed != nil {
		fs.OnDestroyed(b)
	}
	fs.scheduleIgnition()
}

// Episode returns the building's active fire episode, or nil when the
// building is not burning.
func (fs *FireScheduler) Episode(b *Building) *FireEpisode {
	if b == nil {
		return nil
	}
	for _, ep := range fs.episodes {
		if ep.Building == b {
			return ep
		}
	}
	return nil
}

// CurrentFire returns the advertised current episode: the oldest ignition
// still burning, or nil when nothing burns.
func (fs *FireScheduler) CurrentFire() *FireEpisode {
	if len(fs.episodes) == 0 {
		return nil
	}
	return fs.episodes[0]
}

// Burning returns every building currently on fire, ignition order not
// guaranteed.
func (fs *FireScheduler) Burning() []*Building {
	return fs.registry.InState(StateBurning)
}

// Episodes returns the active episodes in ignition order.
func (fs *FireScheduler) Episodes() []*FireEpisode { return fs.episodes }

// PendingEvents returns how many timers are armed. Test hook.
func (fs *FireScheduler) PendingEvents() int { return len(fs.queue) }

func (fs *FireScheduler) push(ev fireEvent) {
	i := len(fs.queue)
	for i > 0 && fs.queue[i-1].at > ev.at {
		i--
	}
	fs.queue = append(fs.queue, fireEvent{})
	copy(fs.queue[i+1:], fs.queue[i:])
	fs.queue[i] = ev
}

func (fs *FireScheduler) cancelDestroy(buildingID int) {
	for i, ev := range fs.queue {
		if ev.kind == fireEventDestroy && ev.building == buildingID {
			fs.queue = append(fs.queue[:i], fs.queue[i+1:]...)
			return
		}
	}
}

func (fs *FireScheduler) dropEpisode(b *Building) {
	for i, ep := range fs.episodes {
		if ep.Building == b {
			fs.episodes = append(fs.episodes[:i], fs.episodes[i+1:]...)
			return
		}
	}
}
