package sim

// BuildingState is the fire lifecycle state of a single building.
type BuildingState int

const (
	StateNormal       BuildingState = iota // untouched
	StateBurning                           // active fire episode
	StateExtinguished                      // fire put out; terminal
	StateDestroyed                         // burned down; terminal
)

func (bs BuildingState) String() string {
	switch bs {
	case StateNormal:
		return "normal"
	case StateBurning:
		return "burning"
	case StateExtinguished:
		return "extinguished"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// BuildingKind distinguishes the two structure classes the generator places.
type BuildingKind int

const (
	KindDwelling BuildingKind = iota // single-lot house
	KindBlock                        // multi-floor block structure
)

func (bk BuildingKind) String() string {
	if bk == KindBlock {
		return "block"
	}
	return "dwelling"
}

// Building is one placed structure. The Registry owns every Building;
// other components hold references obtained by ID lookup and mutate state
// only through the lifecycle methods below.
type Building struct {
	ID     int
	Kind   BuildingKind
	X, Y   float64 // footprint centre in world space
	Bounds AABB

	state BuildingState
	saved bool // set once a fire on this building was extinguished by the player

	// Visual is the render host's handle for this building. It starts nil
	// (the host draws a placeholder) and is swapped in by asset-load
	// completion, never by the simulation itself.
	Visual any
}

// State returns the current lifecycle state.
func (b *Building) State() BuildingState { return b.state }

// Saved reports whether the player successfully extinguished this building.
func (b *Building) Saved() bool { return b.saved }

func (b *Building) markSaved() { b.saved = true }

// RoofZ is the height of the building's roofline.
func (b *Building) RoofZ() float64 { return b.Bounds.MaxZ }

// transition performs a compare-and-set on the lifecycle state. It returns
// false, leaving the state untouched, when the building is not in from;
// callers treat that as a silent no-op so scheduler/UI races stay harmless.
// A building leaves burning exactly once and terminal states never re-enter
// burning, which this guard enforces structurally: burning is only reachable
// from normal.
func (b *Building) transition(from, to BuildingState) bool {
	if b.state != from {
		return false
	}
	b.state = to
	return true
}

// Registry is the set of placed buildings. It is the single owner of every
// Building and the only component allowed to hand out references.
type Registry struct {
	buildings []*Building
	byID      map[int]*Building
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*Building)}
}

// Add inserts a building. IDs are assigned by the caller (the generator
// numbers them in placement order, so a fixed seed gives fixed IDs).
func (r *Registry) Add(b *Building) {
	r.buildings = append(r.buildings, b)
	r.byID[b.ID] = b
}

// Get looks a building up by identity. Returns nil if unknown.
func (r *Registry) Get(id int) *Building { return r.byID[id] }

// All returns the building slice in placement order. Callers must not
// insert or remove; lifecycle mutation goes through the FireScheduler.
func (r *Registry) All() []*Building { return r.buildings }

// Len returns the number of placed buildings.
func (r *Registry) Len() int { return len(r.buildings) }

// InState collects the buildings currently in the given lifecycle state.
func (r *Registry) InState(st BuildingState) []*Building {
	var out []*Building
	for _, b := range r.buildings {
		if b.state == st {
			out = append(out, b)
		}
	}
	return out
}

// CountState returns how many buildings are in the given state.
func (r *Registry) CountState(st BuildingState) int {
	n := 0
	for _, b := range r.buildings {
		if b.state == st {
			n++
		}
	}
	return n
}
