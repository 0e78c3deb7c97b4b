package game

import (
	"fmt"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-activity reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// ActorReport captures one actor's state at one point in time.
type ActorReport struct {
	ID        int
	Label     string
	Alive     bool
	Head      Position
	HeadLayer Layer
	Pending   int // trail events not yet reached by the tail
	Growth    int
}

// SimReport is a snapshot of the session at one tick plus what happened in it.
type SimReport struct {
	Tick int

	Alive, Dead int
	OnHighLayer int

	Accepted int // commands applied this tick
	Rejected int
	Deaths   int
	Painted  int // visible cells drawn
	Erased   int

	Actors []ActorReport
}

// --- Reporter ---

// SimReporter collects per-tick reports and produces summaries over sliding
// time windows. It is a Sink, so it can be chained behind a renderer.
type SimReporter struct {
	history     []SimReport
	windowTicks int
	verbose     bool
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int, verbose bool) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Report implements Sink.
func (r *SimReporter) Report(tr *TickReport) {
	rep := SimReport{Tick: tr.Tick, Deaths: len(tr.Deaths) + len(tr.Kills)}
	for _, ac := range tr.Applied {
		if ac.Accepted {
			rep.Accepted++
		} else {
			rep.Rejected++
		}
	}
	for _, c := range tr.Cells {
		if c.Erase {
			rep.Erased++
		} else {
			rep.Painted++
		}
	}
	for _, a := range tr.Actors {
		if a.Alive {
			rep.Alive++
		} else {
			rep.Dead++
		}
		if a.HeadLayer == LayerHigh {
			rep.OnHighLayer++
		}
		if r.verbose {
			rep.Actors = append(rep.Actors, ActorReport{
				ID:        a.ID,
				Label:     fmt.Sprintf("S%d", a.ID),
				Alive:     a.Alive,
				Head:      a.Head,
				HeadLayer: a.HeadLayer,
				Pending:   a.Pending,
				Growth:    a.Growth,
			})
		}
	}
	r.history = append(r.history, rep)

	// Keep two windows of history.
	if limit := r.windowTicks * 2; len(r.history) > limit {
		r.history = r.history[len(r.history)-limit:]
	}
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int

	AvgAlive       float64
	AvgOnHighLayer float64

	TotalAccepted int
	TotalRejected int
	TotalDeaths   int
	TotalPainted  int
	TotalErased   int
}

// WindowSummary aggregates the reports inside the sliding window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	last := r.history[len(r.history)-1].Tick
	wr := &WindowReport{FromTick: last, ToTick: last}
	for _, rep := range r.history {
		if rep.Tick <= last-r.windowTicks {
			continue
		}
		if rep.Tick < wr.FromTick {
			wr.FromTick = rep.Tick
		}
		wr.SampleCount++
		wr.AvgAlive += float64(rep.Alive)
		wr.AvgOnHighLayer += float64(rep.OnHighLayer)
		wr.TotalAccepted += rep.Accepted
		wr.TotalRejected += rep.Rejected
		wr.TotalDeaths += rep.Deaths
		wr.TotalPainted += rep.Painted
		wr.TotalErased += rep.Erased
	}
	if wr.SampleCount > 0 {
		n := float64(wr.SampleCount)
		wr.AvgAlive /= n
		wr.AvgOnHighLayer /= n
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Activity Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)

	sb.WriteString("\n--- Actors ---\n")
	fmt.Fprintf(&sb, "  avg alive=%.2f  avg on high layer=%.2f  deaths=%d\n",
		wr.AvgAlive, wr.AvgOnHighLayer, wr.TotalDeaths)

	sb.WriteString("\n--- Input ---\n")
	fmt.Fprintf(&sb, "  accepted=%d  rejected=%d\n", wr.TotalAccepted, wr.TotalRejected)

	sb.WriteString("\n--- Display ---\n")
	fmt.Fprintf(&sb, "  painted=%d  erased=%d\n", wr.TotalPainted, wr.TotalErased)

	return sb.String()
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *SimReporter) FormatLatest() string {
	rep := r.Latest()
	if rep == nil {
		return "No report yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "T=%d alive=%d dead=%d high=%d\n", rep.Tick, rep.Alive, rep.Dead, rep.OnHighLayer)
	for _, a := range rep.Actors {
		state := "alive"
		if !a.Alive {
			state = "dead"
		}
		fmt.Fprintf(&sb, "  %-3s %-5s head=%s L%d pending=%d growth=%d\n",
			a.Label, state, a.Head, a.HeadLayer, a.Pending, a.Growth)
	}
	return sb.String()
}

// History returns all retained reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}
