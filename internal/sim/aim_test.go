package sim

import (
	"math"
	"testing"
)

func testBuilding(x, y, w, d, h float64) *Building {
	return &Building{
		ID: 0, X: x, Y: y,
		Bounds: AABB{MinX: x - w/2, MinY: y - d/2, MaxX: x + w/2, MaxY: y + d/2, MaxZ: h},
	}
}

func TestAim_ClampsAngles(t *testing.T) {
	a := NewAim(DefaultAimConfig)
	a.SetAngles(math.Pi, math.Pi)
	if a.Yaw != DefaultAimConfig.YawMax {
		t.Fatalf("yaw not clamped: %f", a.Yaw)
	}
	if a.Pitch != DefaultAimConfig.PitchMax {
		t.Fatalf("pitch not clamped: %f", a.Pitch)
	}
	a.Adjust(-10, -10)
	if a.Yaw != DefaultAimConfig.YawMin || a.Pitch != DefaultAimConfig.PitchMin {
		t.Fatalf("adjust not clamped: yaw %f pitch %f", a.Yaw, a.Pitch)
	}
}

func TestAim_HitStraightAhead(t *testing.T) {
	b := testBuilding(50, 0, 20, 20, 12)
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(0, 0, 6, 0) // level with the target centre
	a.SetAngles(0, 0)
	if !a.Hitting(b) {
		t.Fatal("dead-centre aim should hit")
	}
}

func TestAim_MissBehind(t *testing.T) {
	b := testBuilding(-50, 0, 20, 20, 12)
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(0, 0, 6, 0)
	a.SetAngles(0, 0)
	if a.Hitting(b) {
		t.Fatal("a target behind the emitter must not hit")
	}
}

func TestAim_MissBeyondRange(t *testing.T) {
	b := testBuilding(DefaultAimConfig.MaxRange+30, 0, 20, 20, 12)
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(0, 0, 6, 0)
	a.SetAngles(0, 0)
	if a.Hitting(b) {
		t.Fatal("a target beyond max range must not hit")
	}
}

func TestAim_MissOutsideTolerance(t *testing.T) {
	off := DefaultAimConfig.HitRadius + 1
	b := testBuilding(50, off, 20, 20, 12)
	b.Bounds.MinZ, b.Bounds.MaxZ = 6, 6 // pin the centre at emitter height
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(0, 0, 6, 0)
	a.SetAngles(0, 0)
	if a.Hitting(b) {
		t.Fatal("perpendicular offset beyond the tolerance radius must miss")
	}
}

func TestAim_AimAtFromHover(t *testing.T) {
	b := testBuilding(100, 40, 24, 24, 30)
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(100, 40, b.RoofZ()+12, 0) // hovering straight above
	a.AimAt(b)
	if !a.Hitting(b) {
		t.Fatal("aiming straight down from the hover point should hit")
	}
}

func TestAim_BaseYawRotatesFrame(t *testing.T) {
	// Emitter body facing +Y; zero relative yaw must aim along +Y.
	b := testBuilding(0, 50, 20, 20, 12)
	a := NewAim(DefaultAimConfig)
	a.SetEmitter(0, 0, 6, math.Pi/2)
	a.SetAngles(0, 0)
	if !a.Hitting(b) {
		t.Fatal("aim frame should follow the emitter body yaw")
	}
}

func TestAim_DeactivatePreservesConfiguration(t *testing.T) {
	a := NewAim(DefaultAimConfig)
	a.SetAngles(0.3, -0.4)
	a.Activate()
	if !a.Active() {
		t.Fatal("activate failed")
	}
	a.Deactivate()
	if a.Active() {
		t.Fatal("deactivate failed")
	}
	if a.Yaw != 0.3 || a.Pitch != -0.4 {
		t.Fatalf("deactivate lost configuration: yaw %f pitch %f", a.Yaw, a.Pitch)
	}
}
