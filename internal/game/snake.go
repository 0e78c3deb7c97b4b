package game

import "fmt"

// Color is a 16-bit RGB565 pixel value, the native format of the node displays.
type Color uint16

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	return r, g, b, 0xffff
}

// cursor is one end of a snake body.
type cursor struct {
	Pos   Position
	Dir   Direction
	Layer Layer
}

// Snake is one player-controlled trail. Only the head and tail cells are
// stored; the body between them is implied by the pending events in log.
type Snake struct {
	ID    int
	Color Color

	head cursor
	tail cursor

	pendingGrowth int
	alive         bool
	steps         uint32 // cells the head has advanced
	tailLost      bool   // an unreplayed event was overwritten; tail heading is stale

	log EventLog
}

// Movement describes what one Update changed.
type Movement struct {
	Head      Position
	HeadLayer Layer
	TailMoved bool
	Tail      Position // cell the tail moved into (erased on the display)
	TailLayer Layer
	Replayed  int // events consumed by the tail this tick
}

// NewSnake places a snake as a single point at start. The head grows away
// from the tail for length ticks before the tail starts to follow.
func NewSnake(id int, start Position, dir Direction, col Color, length int) Snake {
	c := cursor{Pos: start, Dir: dir, Layer: LayerLow}
	if length < 0 {
		length = 0
	}
	return Snake{
		ID:            id,
		Color:         col,
		head:          c,
		tail:          c,
		pendingGrowth: length,
		alive:         true,
	}
}

// Label is the short identifier used in logs ("S0", "S1", ...).
func (s *Snake) Label() string {
	return fmt.Sprintf("S%d", s.ID)
}

func (s *Snake) Alive() bool { return s.alive }
func (s *Snake) Head() Position { return s.head.Pos }
func (s *Snake) Tail() Position { return s.tail.Pos }
func (s *Snake) Heading() Direction { return s.head.Dir }
func (s *Snake) TailHeading() Direction { return s.tail.Dir }
func (s *Snake) Layer() Layer { return s.head.Layer }
func (s *Snake) TailLayer() Layer { return s.tail.Layer }
func (s *Snake) PendingGrowth() int { return s.pendingGrowth }
func (s *Snake) TailLost() bool { return s.tailLost }
func (s *Snake) Log() *EventLog { return &s.log }

// SetDirection turns the head. Reversals and repeats of the current heading
// are ignored so a snake can never fold back onto its own neck. It reports
// whether the turn was recorded.
func (s *Snake) SetDirection(d Direction) bool {
	if !s.alive || !d.Valid() {
		return false
	}
	if d == s.head.Dir || d.IsOpposite(s.head.Dir) {
		return false
	}
	s.head.Dir = d
	s.record(EventTurn)
	return true
}

// ToggleLayer moves the head to the other crossing plane.
func (s *Snake) ToggleLayer() bool {
	if !s.alive {
		return false
	}
	s.head.Layer = s.head.Layer.Flip()
	kind := EventLayerOff
	if s.head.Layer == LayerHigh {
		kind = EventLayerOn
	}
	s.record(kind)
	return true
}

func (s *Snake) record(kind EventKind) {
	dropped := s.log.Dropped()
	s.log.Append(TrailEvent{
		Pos:   s.head.Pos,
		Kind:  kind,
		Dir:   s.head.Dir,
		Layer: s.head.Layer,
		Step:  s.steps,
	})
	if s.log.Dropped() > dropped {
		s.tailLost = true
	}
}

// Kill freezes the snake. Its trail stays on the board.
func (s *Snake) Kill() {
	s.alive = false
}

// Place resets the snake to a single point at pos heading dir, discarding
// its trail. Used when a host overrides local start positions.
func (s *Snake) Place(pos Position, dir Direction, length int) {
	layer := s.head.Layer
	s.head = cursor{Pos: pos, Dir: dir, Layer: layer}
	s.tail = s.head
	s.pendingGrowth = length
	s.tailLost = false
	s.log = EventLog{}
}

// Update advances the snake one tick: the head always moves, the tail moves
// only once growth is exhausted, replaying the head's recorded events as it
// reaches the cells where they happened.
func (s *Snake) Update() Movement {
	s.head.Pos = s.head.Pos.Step(s.head.Dir)
	s.steps++
	m := Movement{Head: s.head.Pos, HeadLayer: s.head.Layer}

	if s.pendingGrowth > 0 {
		s.pendingGrowth--
		return m
	}

	m.Replayed = s.replayAtTail()
	s.tail.Pos = s.tail.Pos.Step(s.tail.Dir)
	m.TailMoved = true
	m.Tail = s.tail.Pos
	m.TailLayer = s.tail.Layer
	return m
}

// replayAtTail consumes the oldest event when the tail stands on its cell.
// Events written in the same tick share a cell and are consumed together.
func (s *Snake) replayAtTail() int {
	ev, ok := s.log.Oldest()
	if !ok || ev.Pos != s.tail.Pos {
		return 0
	}
	step := ev.Step
	n := 0
	for ok && ev.Pos == s.tail.Pos && ev.Step == step {
		ev.apply(&s.tail)
		s.log.Consume()
		n++
		ev, ok = s.log.Oldest()
	}
	s.tailLost = false
	return n
}

// ActorState is a read-only snapshot of a snake after a tick.
type ActorState struct {
	ID        int
	Color     Color
	Head      Position
	HeadDir   Direction
	HeadLayer Layer
	Tail      Position
	TailDir   Direction
	TailLayer Layer
	Alive     bool
	Growth    int
	Pending   int
}

// State snapshots the snake.
func (s *Snake) State() ActorState {
	return ActorState{
		ID:        s.ID,
		Color:     s.Color,
		Head:      s.head.Pos,
		HeadDir:   s.head.Dir,
		HeadLayer: s.head.Layer,
		Tail:      s.tail.Pos,
		TailDir:   s.tail.Dir,
		TailLayer: s.tail.Layer,
		Alive:     s.alive,
		Growth:    s.pendingGrowth,
		Pending:   s.log.Len(),
	}
}
