package game

import "time"

// Gate paces ticks against the wall clock. It opens at most once per period
// and never queues ticks: if several periods elapsed since the last tick,
// one tick runs and the rest are counted as skipped.
type Gate struct {
	period  time.Duration
	now     func() time.Time
	last    time.Time
	started bool
	skipped int
}

// NewGate builds a gate for tps ticks per second.
func NewGate(tps int) *Gate {
	if tps <= 0 {
		tps = FastTicksPerSecond
	}
	return &Gate{period: time.Second / time.Duration(tps), now: time.Now}
}

// WithClock swaps the time source. Intended for tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Period is the minimum spacing between ticks.
func (g *Gate) Period() time.Duration { return g.period }

// Skipped counts ticks dropped because the caller polled too late.
func (g *Gate) Skipped() int { return g.skipped }

// Ready reports whether a tick may run now and, if so, starts the next period.
func (g *Gate) Ready() bool {
	t := g.now()
	if !g.started {
		g.started = true
		g.last = t
		return false
	}
	elapsed := t.Sub(g.last)
	if elapsed < g.period {
		return false
	}
	if lost := int(elapsed/g.period) - 1; lost > 0 {
		g.skipped += lost
	}
	g.last = t
	return true
}
