package game

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGate_OpensOncePerPeriod(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	g := NewGate(10).WithClock(clk.now)
	if g.Period() != 100*time.Millisecond {
		t.Fatalf("Period = %s", g.Period())
	}
	if g.Ready() {
		t.Fatal("first poll only starts the clock")
	}
	clk.advance(50 * time.Millisecond)
	if g.Ready() {
		t.Fatal("opened before a full period")
	}
	clk.advance(50 * time.Millisecond)
	if !g.Ready() {
		t.Fatal("should open after one period")
	}
	if g.Ready() {
		t.Fatal("should not open twice in the same instant")
	}
}

func TestGate_NoCatchUp(t *testing.T) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	g := NewGate(10).WithClock(clk.now)
	g.Ready()
	clk.advance(350 * time.Millisecond)
	if !g.Ready() {
		t.Fatal("late poll should still open")
	}
	if g.Ready() {
		t.Fatal("missed periods must not be replayed")
	}
	if g.Skipped() != 2 {
		t.Fatalf("Skipped = %d, want 2", g.Skipped())
	}
}

func TestNewGate_DefaultRate(t *testing.T) {
	g := NewGate(0)
	if g.Period() != time.Second/FastTicksPerSecond {
		t.Fatalf("Period = %s", g.Period())
	}
}
