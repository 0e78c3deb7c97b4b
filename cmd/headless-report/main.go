package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/trace"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstDeathTick int
	lastDeathTick  int
	deaths         int
	kills          int
	accepted       int
	rejected       int
	overflows      int
	layerToggles   int

	outcome       game.MatchOutcomeReason
	survivors     map[string]struct{}
	windowSummary *game.WindowReport
	debug         string
}

var scenarios = map[string]func(rng *rand.Rand, ticks int) []game.SessionOption{
	"idle":        scenarioIdle,
	"random-walk": scenarioRandomWalk,
	"head-on":     scenarioHeadOn,
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var startLength int
	var tracePath string
	var replayPath string
	var debug bool
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless session runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "random-walk", "scenario name ("+scenarioNames()+")")
	flag.IntVar(&startLength, "start-length", game.DefaultStartLength, "ticks every snake grows before its tail moves")
	flag.StringVar(&tracePath, "trace", "", "write a protowire trace of run 1 to this file")
	flag.StringVar(&replayPath, "replay", "", "summarise a trace file instead of running")
	flag.BoolVar(&debug, "debug", false, "print the debug report of every run")
	flag.BoolVar(&verbose, "verbose", false, "record per-tick move entries")
	flag.Parse()

	if replayPath != "" {
		if err := replay(replayPath); err != nil {
			log.Fatal(err)
		}
		return
	}
	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	build, ok := scenarios[scenario]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, scenarioNames())
		return
	}

	fmt.Printf("=== Headless Layer-Snake Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d start_length=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep, startLength)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		opts := build(rand.New(rand.NewSource(seed)), ticks) // #nosec G404 -- reproducible scenarios
		opts = append(opts, game.WithStartLength(startLength), game.WithVerbose(verbose))
		path := ""
		if i == 0 {
			path = tracePath
		}
		stats, err := runScenario(i+1, seed, ticks, path, opts)
		if err != nil {
			log.Fatal(err)
		}
		all = append(all, stats)
		printRun(stats)
		if debug {
			fmt.Println(stats.debug)
		}
	}

	printAggregate(all)
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for k := range scenarios {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// scenarioIdle runs the three default actors with no input.
func scenarioIdle(_ *rand.Rand, _ int) []game.SessionOption {
	return nil
}

// scenarioRandomWalk gives every default actor a random turn or layer
// toggle on about one tick in twelve.
func scenarioRandomWalk(rng *rand.Rand, ticks int) []game.SessionOption {
	var opts []game.SessionOption
	for tick := 1; tick <= ticks; tick++ {
		for actor := 0; actor < game.MaxActors; actor++ {
			if rng.Intn(12) != 0 {
				continue
			}
			cmd := game.LayerToggle()
			if k := rng.Intn(5); k < 4 {
				cmd = game.Turn(game.Direction(k))
			}
			opts = append(opts, game.WithCommandAt(tick, actor, cmd))
		}
	}
	return opts
}

// scenarioHeadOn sends S0 and S1 at each other on one row, with S2 far
// away on the high layer.
func scenarioHeadOn(rng *rand.Rand, _ int) []game.SessionOption {
	y := 20 + rng.Intn(game.BoardHeight-40)
	return []game.SessionOption{
		game.WithActor(10, y, game.Right),
		game.WithActor(100, y, game.Left),
		game.WithActor(64, (y+game.BoardHeight/2)%game.BoardHeight, game.Up),
		game.WithCommandAt(1, 2, game.LayerToggle()),
	}
}

func runScenario(runIndex int, seed int64, ticks int, tracePath string, opts []game.SessionOption) (runStats, error) {
	reporter := game.NewSimReporter(0, false)
	var rec *trace.Recorder
	opts = append(opts,
		game.WithSink(reporter),
		game.WithSink(game.SinkFunc(func(r *game.TickReport) {
			if rec != nil {
				rec.Report(r)
			}
		})),
	)
	ts := game.NewTestSession(opts...)
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return runStats{}, fmt.Errorf("trace: %w", err)
		}
		if rec, err = trace.NewRecorder(f, ts.Session); err != nil {
			f.Close()
			return runStats{}, err
		}
	}
	ts.RunTicks(ticks)
	if rec != nil {
		if err := rec.Close(); err != nil {
			return runStats{}, fmt.Errorf("trace: %w", err)
		}
		log.Printf("trace: wrote %d frames to %s", rec.Frames(), tracePath)
	}
	return collectStats(runIndex, seed, ts, reporter), nil
}

func collectStats(runIndex int, seed int64, ts *game.TestSession, reporter *game.SimReporter) runStats {
	sl := ts.Log()
	entries := sl.Entries()
	rs := runStats{
		runIndex:       runIndex,
		seed:           seed,
		ticks:          ts.CurrentTick(),
		firstDeathTick: firstTick(entries, "collision", "death", ""),
		deaths:         sl.Count("collision", "death"),
		kills:          sl.Count("collision", "killed"),
		overflows:      sl.Count("log", "overflow"),
		layerToggles:   sl.Count("input", "layer"),
		outcome:        game.DetermineMatchOutcome(ts.Session),
		survivors:      map[string]struct{}{},
		windowSummary:  reporter.WindowSummary(),
		debug:          game.DebugReport(ts.Session, 120),
	}
	rs.lastDeathTick = rs.outcome.LastDeath
	rs.accepted, rs.rejected = sl.Commands("")
	for i := 0; i < ts.NumActors(); i++ {
		if a := ts.Actor(i); a.Alive() {
			rs.survivors[a.Label()] = struct{}{}
		}
	}
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s (%s) ticks=%d first_death=%d last_death=%d\n",
		rs.outcome.Outcome, rs.outcome.Description, rs.ticks, rs.firstDeathTick, rs.lastDeathTick)
	fmt.Printf("event_totals: accepted=%d rejected=%d layer_toggles=%d deaths=%d kills=%d log_overflows=%d\n",
		rs.accepted, rs.rejected, rs.layerToggles, rs.deaths, rs.kills, rs.overflows)
	fmt.Printf("survivors: %s\n", joinSet(rs.survivors))
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick)
		fmt.Printf("window_avg: alive=%.2f on_high_layer=%.2f painted=%d erased=%d\n",
			rs.windowSummary.AvgAlive, rs.windowSummary.AvgOnHighLayer,
			rs.windowSummary.TotalPainted, rs.windowSummary.TotalErased)
	}
	fmt.Println()
}

// tally counts outcomes across runs.
type tally struct {
	winners      map[string]int
	draws        int
	inconclusive int
}

func tallyOutcomes(all []runStats) tally {
	t := tally{winners: map[string]int{}}
	for _, rs := range all {
		switch rs.outcome.Outcome {
		case game.OutcomeWinner:
			t.winners[fmt.Sprintf("S%d", rs.outcome.Winner)]++
		case game.OutcomeDraw:
			t.draws++
		default:
			t.inconclusive++
		}
	}
	return t
}

func printAggregate(all []runStats) {
	totalAccepted := 0
	totalRejected := 0
	totalDeaths := 0
	totalOverflows := 0
	deathTicks := make([]int, 0, len(all))
	survivorsGlobal := map[string]struct{}{}

	for _, rs := range all {
		totalAccepted += rs.accepted
		totalRejected += rs.rejected
		totalDeaths += rs.deaths
		totalOverflows += rs.overflows
		if rs.firstDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.firstDeathTick)
		}
		for label := range rs.survivors {
			survivorsGlobal[label] = struct{}{}
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: accepted=%.1f rejected=%.1f deaths=%.1f log_overflows=%.1f\n",
		avg(totalAccepted, len(all)), avg(totalRejected, len(all)), avg(totalDeaths, len(all)), avg(totalOverflows, len(all)))
	fmt.Printf("first_death_avg_tick=%s\n", avgTickString(deathTicks))

	t := tallyOutcomes(all)
	fmt.Printf("outcomes: draws=%d inconclusive=%d", t.draws, t.inconclusive)
	labels := make([]string, 0, len(t.winners))
	for k := range t.winners {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Printf(" %s_wins=%d", l, t.winners[l])
	}
	fmt.Println()
	fmt.Printf("ever_survived=[%s]\n", joinSet(survivorsGlobal))
}

// replay prints what a trace file adds up to.
func replay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r, err := trace.NewReader(f)
	if err != nil {
		return err
	}
	sum, err := r.Summarize()
	if err != nil {
		return fmt.Errorf("replay after %d frames: %w", sum.Frames, err)
	}
	fmt.Print(formatSummary(sum))
	return nil
}

func formatSummary(sum trace.Summary) string {
	var sb strings.Builder
	h := sum.Header
	fmt.Fprintf(&sb, "=== Trace %s ===\n", h.Session)
	fmt.Fprintf(&sb, "tps=%d actors=%d start_length=%d\n", h.TPS, h.Actors, h.StartLength)
	fmt.Fprintf(&sb, "frames=%d last_tick=%d ended=%v accepted=%d rejected=%d\n",
		sum.Frames, sum.LastTick, sum.Ended, sum.Accepted, sum.Rejected)
	for _, d := range sum.Deaths {
		fmt.Fprintf(&sb, "  death: S%d hit S%d's trail at %s\n", d.Victim, d.Owner, d.At)
	}
	for _, st := range sum.Final {
		state := "alive"
		if !st.Alive {
			state = "dead"
		}
		fmt.Fprintf(&sb, "  S%d %-5s head=%s %s L%d tail=%s\n", st.ID, state, st.Head, st.HeadDir, st.HeadLayer, st.Tail)
	}
	return sb.String()
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

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
