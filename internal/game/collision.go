package game

import "fmt"

// SegmentKind identifies which part of a body a segment came from.
type SegmentKind uint8

const (
	SegmentHead SegmentKind = iota
	SegmentTail
	SegmentHistory
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentHead:
		return "head"
	case SegmentTail:
		return "tail"
	case SegmentHistory:
		return "history"
	}
	return "unknown"
}

// Segment is a straight, axis-aligned run of body cells. It starts at From
// and covers Len steps in direction Dir; both end cells are excluded from
// hit tests.
type Segment struct {
	Owner int
	Kind  SegmentKind
	From  Position
	Dir   Direction
	Len   int
	Layer Layer
}

// To returns the far end point of the segment.
func (sg Segment) To() Position {
	p := sg.From
	for i := 0; i < sg.Len; i++ {
		p = p.Step(sg.Dir)
	}
	return p
}

// Contains reports whether p lies strictly between the segment's end points.
// Landing exactly on an end point, a corner of the trail, is not a hit.
func (sg Segment) Contains(p Position) bool {
	off := distanceAlong(sg.From, p, sg.Dir)
	return off > 0 && off < sg.Len
}

func (sg Segment) String() string {
	return fmt.Sprintf("S%d/%s %s→%s L%d", sg.Owner, sg.Kind, sg.From, sg.To(), sg.Layer)
}

// segment builds a segment travelling from a to b along d. ok is false when b
// is not reachable from a along d, which happens once a trail has lost
// events to overflow.
func segment(owner int, kind SegmentKind, a, b Position, d Direction, layer Layer) (Segment, bool) {
	n := distanceAlong(a, b, d)
	if n < 0 {
		return Segment{}, false
	}
	return Segment{Owner: owner, Kind: kind, From: a, Dir: d, Len: n, Layer: layer}, true
}

// Segments calls fn for every body segment of s: the head segment first, then
// the tail segment, then the historical segments newest to oldest. Iteration
// stops when fn returns false. The tail segment is left out while the tail is
// lost after an overflow.
func (s *Snake) Segments(fn func(Segment) bool) {
	newest, ok := s.log.Newest()
	if !ok {
		if sg, ok := segment(s.ID, SegmentHead, s.tail.Pos, s.head.Pos, s.head.Dir, s.head.Layer); ok {
			fn(sg)
		}
		return
	}
	if sg, ok := segment(s.ID, SegmentHead, newest.Pos, s.head.Pos, s.head.Dir, s.head.Layer); ok {
		if !fn(sg) {
			return
		}
	}
	// A stale tail heading can point away from the oldest event and sweep
	// cells the body never covered, so a lost tail has no segment.
	oldest, _ := s.log.Oldest()
	if sg, ok := segment(s.ID, SegmentTail, s.tail.Pos, oldest.Pos, s.tail.Dir, s.tail.Layer); ok && !s.tailLost {
		if !fn(sg) {
			return
		}
	}

	history := make([]Segment, 0, s.log.Len())
	var prev TrailEvent
	first := true
	s.log.Pending(func(ev TrailEvent) bool {
		if !first {
			if sg, ok := segment(s.ID, SegmentHistory, prev.Pos, ev.Pos, prev.Dir, prev.Layer); ok {
				history = append(history, sg)
			}
		}
		prev = ev
		first = false
		return true
	})
	for i := len(history) - 1; i >= 0; i-- {
		if !fn(history[i]) {
			return
		}
	}
}

// Collision records one actor's head entering another trail.
type Collision struct {
	Victim  int
	At      Position
	Segment Segment
}

func (c Collision) String() string {
	return fmt.Sprintf("S%d at %s hit %s", c.Victim, c.At, c.Segment)
}

// DetectCollisions tests every live snake's head against every trail
// segment on the same layer, dead snakes and the snake itself included. The
// first hit per snake is returned; snakes are visited in slice order so two
// runs over the same state give the same result. Nothing is mutated.
func DetectCollisions(snakes []Snake) []Collision {
	var out []Collision
	for i := range snakes {
		a := &snakes[i]
		if !a.alive {
			continue
		}
		head, layer := a.head.Pos, a.head.Layer
		hit := false
		for j := range snakes {
			snakes[j].Segments(func(sg Segment) bool {
				if sg.Layer != layer || !sg.Contains(head) {
					return true
				}
				out = append(out, Collision{Victim: a.ID, At: head, Segment: sg})
				hit = true
				return false
			})
			if hit {
				break
			}
		}
	}
	return out
}
