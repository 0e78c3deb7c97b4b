package game

// Cell is one display update: a head painting a cell, or a tail erasing one.
type Cell struct {
	Pos   Position
	Color Color
	Layer Layer
	Erase bool
	Actor int
}

// TickReport is everything a tick produced, handed to the sink in step (d).
type TickReport struct {
	Tick    int
	Applied []AppliedCommand
	Deaths  []Collision
	Kills   []int // actors killed by command rather than collision
	Cells   []Cell
	Actors  []ActorState
	Ended   bool
}

// Sink receives the state of every tick. Renderers and link emitters
// implement it.
type Sink interface {
	Report(r *TickReport)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(r *TickReport)

func (f SinkFunc) Report(r *TickReport) { f(r) }

// MultiSink fans a report out in order.
type MultiSink []Sink

func (m MultiSink) Report(r *TickReport) {
	for _, s := range m {
		if s != nil {
			s.Report(r)
		}
	}
}

// Discard is a sink that ignores every report.
var Discard Sink = SinkFunc(func(*TickReport) {})
