package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/fennweller/ember-city/internal/sim"
)

// buildReport formats a snapshot of the whole run: world shape, vehicle
// and mission state, and the fire ledger. Paste-friendly for bug reports.
func buildReport(s *sim.Sim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Ember City debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d roads=%d buildings=%d\n",
		s.Config.World.Seed, s.Tick(), len(s.World.Roads), s.Registry.Len())

	v := s.Vehicle
	fmt.Fprintf(&b, "vehicle: pos=(%.1f,%.1f) heading=%.2f speed=%.1f/%.0f on_road=%t\n",
		v.X, v.Y, v.Heading, v.Speed, s.Config.Vehicle.MaxSpeed, s.World.OnRoad(v.X, v.Y))

	m := s.Mission
	fmt.Fprintf(&b, "mission: mode=%s score=%d unlocked=%t", m.Mode(), m.Score(), m.Unlocked())
	if t := m.Target(); t != nil {
		fmt.Fprintf(&b, " target=B%d progress=%.0f%%", t.ID, m.Progress()*100)
	}
	b.WriteByte('\n')
	if m.Mode() != sim.ModeDriving {
		d := m.DronePose()
		fmt.Fprintf(&b, "drone: pos=(%.1f,%.1f,%.1f)\n", d.X, d.Y, d.Z)
	}

	fmt.Fprintf(&b, "states: normal=%d burning=%d extinguished=%d destroyed=%d\n",
		s.Registry.CountState(sim.StateNormal),
		s.Registry.CountState(sim.StateBurning),
		s.Registry.CountState(sim.StateExtinguished),
		s.Registry.CountState(sim.StateDestroyed))

	eps := s.Scheduler.Episodes()
	if len(eps) > 0 {
		b.WriteString("active fires:\n")
		for _, ep := range eps {
			fmt.Fprintf(&b, "  B%d started=%.1fs deadline=%.1fs intensity=%.2f\n",
				ep.Building.ID, ep.StartedAt.Seconds(), ep.Deadline.Seconds(), ep.Intensity)
		}
	}

	// Tail of the event log, most useful context for a bug report.
	entries := s.Log.Entries()
	const tail = 30
	from := len(entries) - tail
	if from < 0 {
		from = 0
	}
	if len(entries) > 0 {
		fmt.Fprintf(&b, "log tail (%d of %d):\n", len(entries)-from, len(entries))
		for _, e := range entries[from:] {
			b.WriteString("  ")
			b.WriteString(e.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// copyReport builds the report and places it on the system clipboard.
func (g *Game) copyReport() {
	report := buildReport(g.sim)
	g.lastReport = report
	g.reportTick = g.sim.Tick()
	if err := clipboard.WriteAll(report); err != nil {
		g.log.Warn().Err(err).Msg("clipboard write failed")
	}
}
