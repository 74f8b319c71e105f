package sim

import "testing"

func TestAssets_ResolutionAppliesAtDrainPoint(t *testing.T) {
	ts := NewTestSim(WithMaxBuildings(0), WithBuilding(30, 0, 10, 10, 12))
	b := ts.Sim.Registry.Get(0)

	h := ts.Sim.Assets.Request(AssetBuilding, b.ID)
	h.Resolve("facade")
	if b.Visual != nil {
		t.Fatal("visual applied outside the tick loop")
	}

	before := b.State()
	ts.RunTicks(1)
	if b.Visual != "facade" {
		t.Fatalf("visual not swapped at the drain point: %v", b.Visual)
	}
	if b.State() != before {
		t.Fatalf("asset swap changed lifecycle state to %s", b.State())
	}
}

func TestAssets_SwapPreservesBurningState(t *testing.T) {
	ts := NewTestSim(WithMaxBuildings(0), WithBuilding(30, 0, 10, 10, 12), WithBurning(0))
	b := ts.Sim.Registry.Get(0)

	ts.Sim.Assets.Request(AssetBuilding, b.ID).Resolve("facade")
	ts.RunTicks(1)

	if b.State() != StateBurning {
		t.Fatalf("burning building left %s after an asset swap", b.State())
	}
	if ts.Sim.Scheduler.Episode(b) == nil {
		t.Fatal("asset swap dropped the fire episode")
	}
	if b.Visual != "facade" {
		t.Fatalf("visual not swapped: %v", b.Visual)
	}
}

func TestAssets_NilResolutionKeepsPlaceholder(t *testing.T) {
	ts := NewTestSim(WithMaxBuildings(0), WithBuilding(30, 0, 10, 10, 12))
	b := ts.Sim.Registry.Get(0)

	ts.Sim.Assets.Request(AssetBuilding, b.ID).Resolve(nil)
	ts.RunTicks(1)
	if b.Visual != nil {
		t.Fatalf("failed load must keep the placeholder, got %v", b.Visual)
	}
}

func TestAssets_NonBuildingKindsIgnored(t *testing.T) {
	ts := NewTestSim(WithMaxBuildings(0), WithBuilding(30, 0, 10, 10, 12))
	b := ts.Sim.Registry.Get(0)

	ts.Sim.Assets.Request(AssetDrone, b.ID).Resolve("rotor")
	ts.RunTicks(1)
	if b.Visual != nil {
		t.Fatalf("drone resolution written to a building: %v", b.Visual)
	}
}
