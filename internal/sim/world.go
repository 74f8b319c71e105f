package sim

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// RoadOrientation is the axis a road runs along.
type RoadOrientation int

const (
	RoadHorizontal RoadOrientation = iota // runs along +X
	RoadVertical                          // runs along +Y
)

// RoadClass splits the grid into wide major arteries and narrow minor streets.
type RoadClass int

const (
	RoadMinor RoadClass = iota
	RoadMajor
)

// Road is one axis-aligned road. Immutable after generation.
type Road struct {
	Orientation RoadOrientation
	Class       RoadClass
	CenterX     float64
	CenterY     float64
	Length      float64
	Width       float64

	// Local-frame rotation, precomputed from the road's yaw so the
	// containment test is two multiplies per axis.
	cosYaw float64
	sinYaw float64
}

// Contains reports whether the point (x,y) lies on the roadway. The query
// point is rotated into the road's local frame; containment is then a pair
// of half-extent comparisons.
func (r *Road) Contains(x, y float64) bool {
	dx := x - r.CenterX
	dy := y - r.CenterY
	along := dx*r.cosYaw + dy*r.sinYaw
	across := -dx*r.sinYaw + dy*r.cosYaw
	return math.Abs(along) <= r.Length/2 && math.Abs(across) <= r.Width/2
}

// Bounds returns the road's ground-plane rectangle. Valid because every
// generated road is axis-aligned.
func (r *Road) Bounds() AABB {
	hl, hw := r.Length/2, r.Width/2
	if r.Orientation == RoadHorizontal {
		return AABB{MinX: r.CenterX - hl, MinY: r.CenterY - hw, MaxX: r.CenterX + hl, MaxY: r.CenterY + hw}
	}
	return AABB{MinX: r.CenterX - hw, MinY: r.CenterY - hl, MaxX: r.CenterX + hw, MaxY: r.CenterY + hl}
}

// WorldConfig holds the tuneable parameters for world generation.
type WorldConfig struct {
	Extent       float64 // world half-size; roads span [-Extent, +Extent]
	MinorSpacing float64 // grid pitch between consecutive roads
	MajorSpacing float64 // multiple of MinorSpacing; roads on it are major
	MinorWidth   float64
	MajorWidth   float64
	MaxBuildings int
	Seed         int64
}

// DefaultWorldConfig mirrors the reference city scale.
var DefaultWorldConfig = WorldConfig{
	Extent:       1000,
	MinorSpacing: 80,
	MajorSpacing: 240,
	MinorWidth:   10,
	MajorWidth:   18,
	MaxBuildings: 180,
	Seed:         1,
}

// Building dimension ranges, world units.
const (
	dwellingSideMin   = 18.0
	dwellingSideMax   = 30.0
	dwellingHeightMin = 10.0
	dwellingHeightMax = 16.0

	blockSideMin   = 26.0
	blockSideMax   = 44.0
	blockHeightMin = 30.0
	blockHeightMax = 80.0

	// Gap between the road edge and the near face of a building.
	edgeMarginMin = 4.0
	edgeMarginMax = 14.0

	// Candidate building offsets tried along each side of each road.
	slotsPerRoadSide = 6
)

// World is the generated city: the road grid plus the building registry.
type World struct {
	Config    WorldConfig
	Roads     []Road
	Buildings *Registry
}

// GenerateWorld builds the road grid and places buildings. For a fixed
// config (seed included) the resulting roads and buildings are identical
// across runs: roads are laid out in a fixed sweep order and every random
// draw happens in candidate order, whether or not the candidate is kept.
func GenerateWorld(cfg WorldConfig) *World {
	rng := NewRand(cfg.Seed)
	noise := opensimplex.NewNormalized(cfg.Seed)

	w := &World{
		Config:    cfg,
		Buildings: NewRegistry(),
	}
	w.generateRoads()
	w.placeBuildings(rng, noise)
	return w
}

// OnRoad reports whether (x,y) lies on any road. Linear scan, first match
// wins: being on one road is the same as being on any.
func (w *World) OnRoad(x, y float64) bool {
	for i := range w.Roads {
		if w.Roads[i].Contains(x, y) {
			return true
		}
	}
	return false
}

func (w *World) generateRoads() {
	cfg := w.Config
	length := 2 * cfg.Extent

	// Both axes: one road at every multiple of the minor spacing inside
	// the extent. Horizontal sweep first, then vertical, low to high, so
	// road order is deterministic.
	start := -math.Floor(cfg.Extent/cfg.MinorSpacing) * cfg.MinorSpacing
	for _, orient := range []RoadOrientation{RoadHorizontal, RoadVertical} {
		for c := start; c <= cfg.Extent+1e-9; c += cfg.MinorSpacing {
			class := RoadMinor
			width := cfg.MinorWidth
			if onMajorGrid(c, cfg.MajorSpacing) {
				class = RoadMajor
				width = cfg.MajorWidth
			}
			r := Road{
				Orientation: orient,
				Class:       class,
				Length:      length,
				Width:       width,
			}
			if orient == RoadHorizontal {
				r.CenterY = c
				r.cosYaw, r.sinYaw = 1, 0 // yaw 0
			} else {
				r.CenterX = c
				r.cosYaw, r.sinYaw = 0, 1 // yaw pi/2
			}
			w.Roads = append(w.Roads, r)
		}
	}
}

// onMajorGrid reports whether coordinate c sits on a multiple of spacing,
// tolerant of float stepping error.
func onMajorGrid(c, spacing float64) bool {
	m := math.Abs(math.Mod(c, spacing))
	return m < 1e-6 || spacing-m < 1e-6
}

func (w *World) placeBuildings(rng *rand.Rand, noise opensimplex.Noise) {
	cfg := w.Config
	nextID := 0

	for ri := range w.Roads {
		if w.Buildings.Len() >= cfg.MaxBuildings {
			break
		}
		road := &w.Roads[ri]
		for slot := 0; slot < slotsPerRoadSide; slot++ {
			for _, side := range []float64{-1, 1} {
				if w.Buildings.Len() >= cfg.MaxBuildings {
					return
				}
				b := w.candidateBuilding(rng, noise, road, side, nextID)
				if b == nil {
					continue
				}
				w.Buildings.Add(b)
				nextID++
			}
		}
	}
}

// candidateBuilding rolls one placement attempt beside the road. Returns
// nil when the rolled footprint would overlap a road or another building.
// Random draws happen unconditionally so rejections don't shift the stream.
func (w *World) candidateBuilding(rng *rand.Rand, noise opensimplex.Noise, road *Road, side float64, id int) *Building {
	along := randRange(rng, -road.Length/2*0.9, road.Length/2*0.9)
	margin := randRange(rng, edgeMarginMin, edgeMarginMax)

	// Provisional centre on the road axis, used to sample the density field.
	px := road.CenterX + along*road.cosYaw
	py := road.CenterY + along*road.sinYaw

	// Block structures cluster near major roads and in dense districts.
	blockChance := 0.20 + 0.25*noise.Eval2(px*0.004, py*0.004)
	if road.Class == RoadMajor {
		blockChance += 0.35
	}
	roll := rng.Float64()

	kind := KindDwelling
	sideMin, sideMax := dwellingSideMin, dwellingSideMax
	hMin, hMax := dwellingHeightMin, dwellingHeightMax
	if roll < blockChance {
		kind = KindBlock
		sideMin, sideMax = blockSideMin, blockSideMax
		hMin, hMax = blockHeightMin, blockHeightMax
	}
	width := randRange(rng, sideMin, sideMax)
	depth := randRange(rng, sideMin, sideMax)
	height := randRange(rng, hMin, hMax)

	// Push the footprint away from the road edge: half road width, then
	// the random margin, then half the building depth, along the road's
	// cross axis. The margin keeps buildings clear of the roadway.
	offset := road.Width/2 + margin + depth/2
	cx := px + side*offset*(-road.sinYaw)
	cy := py + side*offset*road.cosYaw

	bounds := AABB{
		MinX: cx - width/2, MaxX: cx + width/2,
		MinY: cy - depth/2, MaxY: cy + depth/2,
		MinZ: 0, MaxZ: height,
	}
	// The depth offset clears the parent road; cross streets can still cut
	// through the footprint, so check the whole grid.
	for i := range w.Roads {
		if bounds.OverlapsXY(w.Roads[i].Bounds()) {
			return nil
		}
	}
	for _, other := range w.Buildings.All() {
		if bounds.OverlapsXY(other.Bounds) {
			return nil
		}
	}

	return &Building{
		ID:     id,
		Kind:   kind,
		X:      cx,
		Y:      cy,
		Bounds: bounds,
	}
}
