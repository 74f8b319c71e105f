package sim

import (
	"testing"
	"time"
)

// newFireFixture builds a registry of n plain dwellings and a scheduler
// over it with the reference timings.
func newFireFixture(n int, seed int64) (*Registry, *FireScheduler) {
	reg := NewRegistry()
	for i := 0; i < n; i++ {
		x := float64(i) * 100
		reg.Add(&Building{
			ID: i, X: x, Y: 0,
			Bounds: AABB{MinX: x - 10, MinY: -10, MaxX: x + 10, MaxY: 10, MaxZ: 12},
		})
	}
	fs := NewFireScheduler(reg, NewRand(seed), DefaultFireConfig, NewSimLog(false))
	return reg, fs
}

func TestFire_DestroyAfterTimeout(t *testing.T) {
	reg, fs := newFireFixture(3, 1)
	b := reg.Get(0)

	var destroyed []int
	fs.OnDestroyed = func(d *Building) { destroyed = append(destroyed, d.ID) }

	if !fs.Ignite(b) {
		t.Fatal("ignite on a normal building should succeed")
	}
	if b.State() != StateBurning {
		t.Fatalf("state after ignite: %s", b.State())
	}

	fs.Advance(9900*time.Millisecond, 1)
	if b.State() != StateBurning {
		t.Fatalf("destroyed before the 10s timeout: %s", b.State())
	}

	fs.Advance(200*time.Millisecond, 2)
	if b.State() != StateDestroyed {
		t.Fatalf("state after timeout: %s", b.State())
	}
	if len(destroyed) != 1 || destroyed[0] != b.ID {
		t.Fatalf("destroyed callback fired %d times with %v", len(destroyed), destroyed)
	}

	// The destruction must have re-armed the random ignition path.
	if fs.PendingEvents() == 0 {
		t.Fatal("no follow-up ignition scheduled after destruction")
	}
}

func TestFire_ExtinguishCancelsTimeout(t *testing.T) {
	reg, fs := newFireFixture(3, 1)
	b := reg.Get(1)

	var destroyed []int
	fs.OnDestroyed = func(d *Building) { destroyed = append(destroyed, d.ID) }

	fs.Ignite(b)
	fs.Advance(3*time.Second, 1)

	if !fs.Extinguish(b) {
		t.Fatal("extinguish on a burning building should succeed")
	}
	if b.State() != StateExtinguished {
		t.Fatalf("state after extinguish: %s", b.State())
	}
	if fs.PendingEvents() == 0 {
		t.Fatal("no follow-up ignition scheduled after extinguish")
	}

	// Long after the original deadline: no destruction may arrive for b.
	// (Later random ignitions may burn down other buildings.)
	fs.Advance(30*time.Second, 2)
	if b.State() != StateExtinguished {
		t.Fatalf("extinguished building changed state to %s", b.State())
	}
	for _, id := range destroyed {
		if id == b.ID {
			t.Fatal("destroy callback fired for an extinguished building")
		}
	}
}

func TestFire_StateRacesAreNoOps(t *testing.T) {
	reg, fs := newFireFixture(2, 1)
	b := reg.Get(0)

	if fs.Extinguish(b) {
		t.Fatal("extinguish on a normal building must be a no-op")
	}
	if b.State() != StateNormal {
		t.Fatalf("no-op extinguish changed state to %s", b.State())
	}

	fs.Ignite(b)
	fs.Extinguish(b)
	if fs.Ignite(b) {
		t.Fatal("an extinguished building must never re-enter burning")
	}
	if fs.Extinguish(b) {
		t.Fatal("second extinguish must be a no-op")
	}

	other := reg.Get(1)
	fs.Ignite(other)
	fs.Advance(DefaultFireConfig.BurnTimeout+time.Second, 1)
	if other.State() != StateDestroyed {
		t.Fatalf("setup failure: expected destroyed, got %s", other.State())
	}
	if fs.Ignite(other) {
		t.Fatal("a destroyed building must never re-enter burning")
	}
}

func TestFire_RandomIgnitionPrefersVisible(t *testing.T) {
	reg, fs := newFireFixture(6, 7)
	fs.Visible = func(b *Building) bool { return b.ID == 4 }

	// The first random ignition is armed 8-15s out; advance past it.
	fs.Advance(15*time.Second, 1)

	if reg.Get(4).State() != StateBurning {
		t.Fatalf("visible candidate not chosen; states: %v", stateSnapshot(reg))
	}
	for _, b := range reg.All() {
		if b.ID != 4 && b.State() != StateNormal {
			t.Fatalf("unexpected ignition of B%d", b.ID)
		}
	}
}

func TestFire_RandomIgnitionFallsBackWhenNoneVisible(t *testing.T) {
	reg, fs := newFireFixture(4, 7)
	fs.Visible = func(*Building) bool { return false }

	fs.Advance(15*time.Second, 1)

	if reg.CountState(StateBurning) != 1 {
		t.Fatalf("expected exactly one burning building, got %d", reg.CountState(StateBurning))
	}
}

func TestFire_ReschedulesWithoutCandidates(t *testing.T) {
	_, fs := newFireFixture(0, 3)

	// Nothing to ignite: each due ignition must re-arm instead of stalling.
	fs.Advance(60*time.Second, 1)
	if fs.PendingEvents() == 0 {
		t.Fatal("scheduler stalled with no pending ignition")
	}
}

func TestFire_CurrentFireIsOldest(t *testing.T) {
	reg, fs := newFireFixture(3, 1)
	fs.Ignite(reg.Get(2))
	fs.Advance(time.Second, 1)
	fs.Ignite(reg.Get(0))

	cur := fs.CurrentFire()
	if cur == nil || cur.Building.ID != 2 {
		t.Fatalf("current fire should be the oldest ignition, got %+v", cur)
	}

	fs.Extinguish(reg.Get(2))
	cur = fs.CurrentFire()
	if cur == nil || cur.Building.ID != 0 {
		t.Fatalf("current fire should advance to the next oldest, got %+v", cur)
	}
}

func TestFire_EpisodeLifetimeMatchesBurning(t *testing.T) {
	reg, fs := newFireFixture(2, 1)
	b := reg.Get(0)

	if fs.Episode(b) != nil {
		t.Fatal("no episode expected before ignition")
	}
	fs.Ignite(b)
	ep := fs.Episode(b)
	if ep == nil {
		t.Fatal("episode expected while burning")
	}
	if ep.Intensity != 1 {
		t.Fatalf("fresh episode intensity: %.2f", ep.Intensity)
	}
	if ep.Deadline-ep.StartedAt != DefaultFireConfig.BurnTimeout {
		t.Fatalf("episode deadline off: %s", ep.Deadline-ep.StartedAt)
	}
	fs.Extinguish(b)
	if fs.Episode(b) != nil {
		t.Fatal("episode must be dropped when the building leaves burning")
	}
}

// stateSnapshot formats the registry's states for failure messages.
func stateSnapshot(reg *Registry) map[int]string {
	out := make(map[int]string, reg.Len())
	for _, b := range reg.All() {
		out[b.ID] = b.State().String()
	}
	return out
}
