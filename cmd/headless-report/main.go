package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/fennweller/ember-city/internal/record"
	"github.com/fennweller/ember-city/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	roads     int
	buildings int

	firstIgniteTick  int
	firstDestroyTick int

	ignited      int
	extinguished int
	destroyed    int
	collisions   int
	score        int

	finalBurning int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var dbPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&dbPath, "db", "", "optional SQLite path to record run summaries")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	var db *record.DB
	if dbPath != "" {
		var err error
		db, err = record.Open(dbPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", dbPath).Msg("open record db")
		}
		defer db.Close()
	}

	fmt.Printf("=== Headless Fire-Response Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runPatrol(i+1, seed, ticks)
		all = append(all, stats)
		printRun(stats)

		if db != nil {
			err := db.Insert(&record.RunSummary{
				Seed:         stats.seed,
				Ticks:        stats.ticks,
				Roads:        stats.roads,
				Buildings:    stats.buildings,
				Ignited:      stats.ignited,
				Extinguished: stats.extinguished,
				Destroyed:    stats.destroyed,
				Score:        stats.score,
			})
			if err != nil {
				logger.Error().Err(err).Int64("seed", seed).Msg("record run")
			}
		}
	}

	printAggregate(all)
}

// runPatrol drives the vehicle in a slow weave through the generated city
// for the whole run, pausing every few seconds so dispatch can trigger.
func runPatrol(runIndex int, seed int64, ticks int) runStats {
	ts := sim.NewTestSim(sim.WithSeed(seed))
	s := ts.Sim

	// Alternate driving bursts with full stops. Stops are where the
	// mission controller is allowed to dispatch.
	const burst = 300 // 5 s driving
	const rest = 120  // 2 s stopped
	done := 0
	phase := 0
	for done < ticks {
		if phase%2 == 0 {
			n := burst
			if done+n > ticks {
				n = ticks - done
			}
			steer := 0.0
			if phase%4 == 0 {
				steer = 0.15
			}
			ts.Drive(n, steer, 0.5)
			done += n
		} else {
			n := rest
			if done+n > ticks {
				n = ticks - done
			}
			ts.RunTicks(n)
			done += n
		}
		phase++
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            ticks,
		roads:            len(s.World.Roads),
		buildings:        s.Registry.Len(),
		firstIgniteTick:  firstTick(ts.SimLog.Entries(), "fire", "ignite"),
		firstDestroyTick: firstTick(ts.SimLog.Entries(), "fire", "destroy"),
		ignited:          ts.SimLog.CountCategory("fire", "ignite"),
		extinguished:     ts.SimLog.CountCategory("fire", "extinguish"),
		destroyed:        ts.SimLog.CountCategory("fire", "destroy"),
		collisions:       ts.SimLog.CountCategory("vehicle", "collision"),
		score:            s.Mission.Score(),
		finalBurning:     len(s.Scheduler.Burning()),
	}
}

func firstTick(entries []sim.SimLogEntry, category, key string) int {
	for _, e := range entries {
		if e.Category == category && e.Key == key {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("world: roads=%d buildings=%d\n", rs.roads, rs.buildings)
	fmt.Printf("phase_markers: first_ignite=%d first_destroy=%d\n", rs.firstIgniteTick, rs.firstDestroyTick)
	fmt.Printf("fire_totals: ignited=%d extinguished=%d destroyed=%d still_burning=%d\n",
		rs.ignited, rs.extinguished, rs.destroyed, rs.finalBurning)
	fmt.Printf("outcome: score=%d collisions=%d\n", rs.score, rs.collisions)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalIgnited := 0
	totalExtinguished := 0
	totalDestroyed := 0
	totalScore := 0
	igniteTicks := make([]int, 0, len(all))
	destroyTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalIgnited += rs.ignited
		totalExtinguished += rs.extinguished
		totalDestroyed += rs.destroyed
		totalScore += rs.score
		if rs.firstIgniteTick >= 0 {
			igniteTicks = append(igniteTicks, rs.firstIgniteTick)
		}
		if rs.firstDestroyTick >= 0 {
			destroyTicks = append(destroyTicks, rs.firstDestroyTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_per_run: ignited=%.1f extinguished=%.1f destroyed=%.1f score=%.1f\n",
		avg(totalIgnited, len(all)), avg(totalExtinguished, len(all)),
		avg(totalDestroyed, len(all)), avg(totalScore, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_ignite=%s first_destroy=%s\n",
		avgTickString(igniteTicks), avgTickString(destroyTicks))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
