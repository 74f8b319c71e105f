package sim

import (
	"math"
	"testing"
)

func TestGenerateWorld_Deterministic(t *testing.T) {
	cfg := DefaultWorldConfig
	cfg.Seed = 42

	a := GenerateWorld(cfg)
	b := GenerateWorld(cfg)

	if len(a.Roads) != len(b.Roads) {
		t.Fatalf("road counts differ: %d vs %d", len(a.Roads), len(b.Roads))
	}
	for i := range a.Roads {
		if a.Roads[i] != b.Roads[i] {
			t.Fatalf("road %d differs: %+v vs %+v", i, a.Roads[i], b.Roads[i])
		}
	}

	if a.Buildings.Len() != b.Buildings.Len() {
		t.Fatalf("building counts differ: %d vs %d", a.Buildings.Len(), b.Buildings.Len())
	}
	ba, bb := a.Buildings.All(), b.Buildings.All()
	for i := range ba {
		if ba[i].ID != bb[i].ID || ba[i].Kind != bb[i].Kind ||
			ba[i].X != bb[i].X || ba[i].Y != bb[i].Y || ba[i].Bounds != bb[i].Bounds {
			t.Fatalf("building %d differs: %+v vs %+v", i, ba[i], bb[i])
		}
	}
}

func TestRoadContains_CenterAndEdge(t *testing.T) {
	w := GenerateWorld(DefaultWorldConfig)
	const eps = 0.01

	for i := range w.Roads {
		r := &w.Roads[i]
		if !r.Contains(r.CenterX, r.CenterY) {
			t.Fatalf("road %d: centre not reported on-road", i)
		}
		// Step halfWidth+eps off the centre, perpendicular to the road.
		var px, py float64
		if r.Orientation == RoadHorizontal {
			px, py = r.CenterX, r.CenterY+r.Width/2+eps
		} else {
			px, py = r.CenterX+r.Width/2+eps, r.CenterY
		}
		if r.Contains(px, py) {
			t.Fatalf("road %d: point %.2f beyond half-width reported on-road", i, r.Width/2+eps)
		}
	}
}

func TestOnRoad_Origin(t *testing.T) {
	w := GenerateWorld(DefaultWorldConfig)
	// The lattice always has a road through coordinate 0 on both axes.
	if !w.OnRoad(0, 0) {
		t.Fatal("origin should be on a road")
	}
}

func TestGenerateWorld_BaselineSeed42(t *testing.T) {
	cfg := DefaultWorldConfig
	cfg.Seed = 42
	cfg.Extent = 1000
	w := GenerateWorld(cfg)

	// 2*floor(1000/80)+1 = 25 lattice lines per axis.
	const wantRoads = 50
	if len(w.Roads) != wantRoads {
		t.Fatalf("roads: got %d, want %d", len(w.Roads), wantRoads)
	}

	majors := 0
	for i := range w.Roads {
		r := &w.Roads[i]
		if r.Class == RoadMajor {
			majors++
			if r.Width != cfg.MajorWidth {
				t.Fatalf("major road %d has width %.1f", i, r.Width)
			}
		} else if r.Width != cfg.MinorWidth {
			t.Fatalf("minor road %d has width %.1f", i, r.Width)
		}
	}
	// Multiples of 240 within ±960: 9 per axis.
	if majors != 18 {
		t.Fatalf("major roads: got %d, want 18", majors)
	}

	// Candidate supply well exceeds the cap, so generation always fills it.
	if w.Buildings.Len() != cfg.MaxBuildings {
		t.Fatalf("buildings: got %d, want %d", w.Buildings.Len(), cfg.MaxBuildings)
	}
}

func TestGenerateWorld_BuildingsClearOfRoads(t *testing.T) {
	w := GenerateWorld(DefaultWorldConfig)
	for _, b := range w.Buildings.All() {
		for i := range w.Roads {
			if b.Bounds.OverlapsXY(w.Roads[i].Bounds()) {
				t.Fatalf("building %d overlaps road %d", b.ID, i)
			}
		}
		if w.OnRoad(b.X, b.Y) {
			t.Fatalf("building %d centre sits on a road", b.ID)
		}
	}
}

func TestGenerateWorld_BuildingsDisjoint(t *testing.T) {
	w := GenerateWorld(DefaultWorldConfig)
	all := w.Buildings.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].Bounds.OverlapsXY(all[j].Bounds) {
				t.Fatalf("buildings %d and %d overlap", all[i].ID, all[j].ID)
			}
		}
	}
}

func TestGenerateWorld_DimensionRanges(t *testing.T) {
	w := GenerateWorld(DefaultWorldConfig)
	for _, b := range w.Buildings.All() {
		width := b.Bounds.MaxX - b.Bounds.MinX
		depth := b.Bounds.MaxY - b.Bounds.MinY
		height := b.Bounds.MaxZ
		switch b.Kind {
		case KindDwelling:
			if width < dwellingSideMin || width > dwellingSideMax ||
				depth < dwellingSideMin || depth > dwellingSideMax ||
				height < dwellingHeightMin || height > dwellingHeightMax {
				t.Fatalf("dwelling %d out of range: %.1fx%.1fx%.1f", b.ID, width, depth, height)
			}
		case KindBlock:
			if width < blockSideMin || width > blockSideMax ||
				depth < blockSideMin || depth > blockSideMax ||
				height < blockHeightMin || height > blockHeightMax {
				t.Fatalf("block %d out of range: %.1fx%.1fx%.1f", b.ID, width, depth, height)
			}
		}
	}
}

func TestRoadContains_LocalFrameRotation(t *testing.T) {
	// A vertical road must accept offsets along Y and reject them along X.
	r := Road{
		Orientation: RoadVertical,
		CenterX:     100,
		Length:      200,
		Width:       10,
		cosYaw:      math.Cos(math.Pi / 2),
		sinYaw:      math.Sin(math.Pi / 2),
	}
	if !r.Contains(100, 90) {
		t.Fatal("point along the road axis should be contained")
	}
	if r.Contains(108, 0) {
		t.Fatal("point beyond half-width across the road should not be contained")
	}
}
