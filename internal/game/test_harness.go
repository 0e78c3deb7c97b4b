package game

import "fmt"

// TestSession is a headless session harness used by tests. It wraps a real
// Session, queues scripted commands per actor and keeps every tick report.
type TestSession struct {
	*Session

	Reports []*TickReport

	cfg    Config
	specs  []ActorSpec
	sinks  MultiSink
	queues [MaxActors]*CommandQueue
	script map[int][]scripted
}

type scripted struct {
	actor int
	cmd   Command
}

// sessionOptionKind controls the pass in which an option is applied.
type sessionOptionKind int

const (
	sessOptConfig sessionOptionKind = iota // tick rate, length, verbosity: applied first
	sessOptActor                           // actor specs: applied before the session is built
	sessOptScript                          // scripted commands: applied after the session exists
)

// SessionOption is a builder function applied to a TestSession during
// construction.
type SessionOption struct {
	kind sessionOptionKind
	fn   func(*TestSession)
}

// WithTicksPerSecond sets the configured tick rate.
func WithTicksPerSecond(tps int) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.TicksPerSecond = tps
	}}
}

// WithStartLength sets how many ticks every snake grows before its tail moves.
func WithStartLength(n int) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.StartLength = n
	}}
}

// WithVerbose enables per-tick move entries in the SimLog.
func WithVerbose(v bool) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.Verbose = v
	}}
}

// WithVisibleLayer picks the layer whose cells are reported.
func WithVisibleLayer(l Layer) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.VisibleLayer = l
	}}
}

// WithAuthoritative toggles local collision detection.
func WithAuthoritative(on bool) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.cfg.Authoritative = on
	}}
}

// WithSink chains an extra sink behind the report collector.
func WithSink(sink Sink) SessionOption {
	return SessionOption{sessOptConfig, func(ts *TestSession) {
		ts.sinks = append(ts.sinks, sink)
	}}
}

// WithActor adds a snake. Without any WithActor the default three are used.
func WithActor(x, y int, dir Direction) SessionOption {
	return SessionOption{sessOptActor, func(ts *TestSession) {
		col := DefaultActors()[len(ts.specs)%MaxActors].Color
		ts.specs = append(ts.specs, ActorSpec{Start: Normalize(x, y), Dir: dir, Color: col})
	}}
}

// WithCommandAt schedules cmd for actor at the start of tick.
func WithCommandAt(tick, actor int, cmd Command) SessionOption {
	return SessionOption{sessOptScript, func(ts *TestSession) {
		ts.script[tick] = append(ts.script[tick], scripted{actor: actor, cmd: cmd})
	}}
}

// NewTestSession builds a TestSession in three ordered passes: config,
// actors, then scripted commands. It panics on an invalid configuration so
// test setup stays a one-liner.
func NewTestSession(opts ...SessionOption) *TestSession {
	ts := &TestSession{
		cfg:    DefaultConfig(),
		script: make(map[int][]scripted),
	}
	for _, o := range opts {
		if o.kind == sessOptConfig {
			o.fn(ts)
		}
	}
	for _, o := range opts {
		if o.kind == sessOptActor {
			o.fn(ts)
		}
	}
	if len(ts.specs) == 0 {
		ts.specs = DefaultActors()
	}
	collect := SinkFunc(func(r *TickReport) {
		ts.Reports = append(ts.Reports, r)
	})
	s, err := NewSession(ts.cfg, ts.specs, append(MultiSink{collect}, ts.sinks...))
	if err != nil {
		panic(fmt.Sprintf("NewTestSession: %v", err))
	}
	ts.Session = s
	for i := range ts.specs {
		ts.queues[i] = &CommandQueue{}
		_ = s.Bind(i, ts.queues[i])
	}
	for _, o := range opts {
		if o.kind == sessOptScript {
			o.fn(ts)
		}
	}
	return ts
}

// Push queues cmd for actor; it is applied on the next tick that has no
// earlier command for that actor.
func (ts *TestSession) Push(actor int, cmd Command) {
	ts.queues[actor].Push(cmd)
}

// RunTicks advances the session n ticks, stopping early if it ends.
func (ts *TestSession) RunTicks(n int) {
	for i := 0; i < n && !ts.Ended(); i++ {
		ts.step()
	}
}

// RunUntil advances the session up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSession) RunUntil(predicate func(*TestSession) bool, maxTicks int) int {
	for i := 0; i < maxTicks && !ts.Ended(); i++ {
		ts.step()
		if predicate(ts) {
			return ts.CurrentTick()
		}
	}
	return -1
}

func (ts *TestSession) step() {
	next := ts.CurrentTick() + 1
	for _, sc := range ts.script[next] {
		ts.queues[sc.actor].Push(sc.cmd)
	}
	ts.Tick()
}

// LastReport returns the most recent tick report, or nil.
func (ts *TestSession) LastReport() *TickReport {
	if len(ts.Reports) == 0 {
		return nil
	}
	return ts.Reports[len(ts.Reports)-1]
}
