package sim

import (
	"testing"
)

// --- Invariant helpers ---

// checkLifecycleConsistent scans the SimLog and verifies that no building
// ever ignites twice and that nothing follows a terminal transition.
func checkLifecycleConsistent(t *testing.T, ts *TestSim) {
	t.Helper()
	type history struct {
		ignites  int
		terminal bool
	}
	byLabel := map[string]*history{}
	for _, e := range ts.SimLog.Filter("fire", "") {
		if e.Subject == "--" {
			continue
		}
		h := byLabel[e.Subject]
		if h == nil {
			h = &history{}
			byLabel[e.Subject] = h
		}
		switch e.Key {
		case "ignite":
			if h.terminal {
				t.Errorf("building %s ignited after a terminal state: %s", e.Subject, e.String())
			}
			h.ignites++
			if h.ignites > 1 {
				t.Errorf("building %s ignited twice: %s", e.Subject, e.String())
			}
		case "extinguish", "destroy":
			if h.ignites == 0 {
				t.Errorf("building %s left burning without igniting: %s", e.Subject, e.String())
			}
			if h.terminal {
				t.Errorf("building %s transitioned twice out of burning: %s", e.Subject, e.String())
			}
			h.terminal = true
		}
	}
}

// checkScoreNeverNegative verifies every recorded score total is >= 0.
func checkScoreNeverNegative(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, e := range ts.SimLog.Filter("score", "delta") {
		if e.NumVal < 0 {
			t.Errorf("score went negative: %s", e.String())
		}
	}
}

// checkRegistryStatesValid verifies in-memory states agree with the
// terminal rules.
func checkRegistryStatesValid(t *testing.T, ts *TestSim) {
	t.Helper()
	for _, b := range ts.Sim.Registry.All() {
		switch b.State() {
		case StateNormal, StateBurning, StateExtinguished, StateDestroyed:
		default:
			t.Errorf("building %d has invalid state %d", b.ID, b.State())
		}
		if b.Saved() && b.State() != StateExtinguished {
			t.Errorf("building %d marked saved in state %s", b.ID, b.State())
		}
	}
}

func TestInvariant_GeneratedWorldStartsClean(t *testing.T) {
	ts := NewTestSim(WithSeed(9))
	for _, b := range ts.Sim.Registry.All() {
		if b.State() != StateNormal {
			t.Fatalf("building %d not normal after generation: %s", b.ID, b.State())
		}
	}
	checkRegistryStatesValid(t, ts)
}
