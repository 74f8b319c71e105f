package main

import (
	"testing"

	"github.com/fennweller/ember-city/internal/sim"
)

func TestFirstTick(t *testing.T) {
	entries := []sim.SimLogEntry{
		{Tick: 3, Category: "world", Key: "generated"},
		{Tick: 12, Category: "fire", Key: "ignite"},
		{Tick: 40, Category: "fire", Key: "ignite"},
		{Tick: 55, Category: "fire", Key: "destroy"},
	}

	if got := firstTick(entries, "fire", "ignite"); got != 12 {
		t.Fatalf("first ignite: got %d, want 12", got)
	}
	if got := firstTick(entries, "fire", "destroy"); got != 55 {
		t.Fatalf("first destroy: got %d, want 55", got)
	}
	if got := firstTick(entries, "fire", "extinguish"); got != -1 {
		t.Fatalf("missing key: got %d, want -1", got)
	}
}

func TestRunPatrol_ProducesFiresAndWorldStats(t *testing.T) {
	// 30 s is enough for the first scheduled ignition (8-15 s) and its
	// burn deadline (10 s later) to both land.
	stats := runPatrol(1, 42, 1800)

	if stats.roads == 0 || stats.buildings == 0 {
		t.Fatalf("empty world: roads=%d buildings=%d", stats.roads, stats.buildings)
	}
	if stats.ignited == 0 {
		t.Fatal("expected at least one ignition in 30s")
	}
	if stats.firstIgniteTick <= 0 {
		t.Fatalf("first ignite tick: got %d", stats.firstIgniteTick)
	}
	if stats.score < 0 {
		t.Fatalf("score went negative: %d", stats.score)
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("empty: got %q", got)
	}
	if got := avgTickString([]int{10, 20}); got != "15.0" {
		t.Fatalf("avg: got %q, want 15.0", got)
	}
}
