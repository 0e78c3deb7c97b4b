package game

import "fmt"

// Board dimensions in cells. The board is a torus: leaving one edge re-enters
// on the opposite edge.
const (
	BoardWidth  = 128
	BoardHeight = 160
)

// Direction is a heading on the grid. Opposite headings differ by 2 (mod 4).
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d <= Left
}

// Opposite returns the 180° reversal of d.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// IsOpposite reports whether o is the exact reverse of d.
func (d Direction) IsOpposite(o Direction) bool {
	return d.Opposite() == o
}

// Vertical reports whether d moves along the y axis.
func (d Direction) Vertical() bool {
	return d%2 == 0
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("dir(%d)", uint8(d))
}

// Layer is one of the two crossing planes a body can occupy.
type Layer uint8

const (
	LayerLow  Layer = 0
	LayerHigh Layer = 1
)

// Flip returns the other layer.
func (l Layer) Flip() Layer {
	return l ^ 1
}

// Position is a cell on the board.
type Position struct {
	X uint8
	Y uint8
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Step returns the cell one move away from p in direction d, wrapping at the
// board edges.
func (p Position) Step(d Direction) Position {
	switch d {
	case Up:
		if p.Y == 0 {
			p.Y = BoardHeight - 1
		} else {
			p.Y--
		}
	case Down:
		p.Y++
		if p.Y >= BoardHeight {
			p.Y = 0
		}
	case Left:
		if p.X == 0 {
			p.X = BoardWidth - 1
		} else {
			p.X--
		}
	case Right:
		p.X++
		if p.X >= BoardWidth {
			p.X = 0
		}
	}
	return p
}

// Normalize folds arbitrary signed coordinates onto the board.
func Normalize(x, y int) Position {
	x %= BoardWidth
	if x < 0 {
		x += BoardWidth
	}
	y %= BoardHeight
	if y < 0 {
		y += BoardHeight
	}
	return Position{X: uint8(x), Y: uint8(y)}
}

// distanceAlong returns how many steps in direction d lead from a to b, or -1
// when b is not on the row/column that d sweeps from a.
func distanceAlong(a, b Position, d Direction) int {
	switch d {
	case Up:
		if a.X != b.X {
			return -1
		}
		return wrap(int(a.Y)-int(b.Y), BoardHeight)
	case Down:
		if a.X != b.X {
			return -1
		}
		return wrap(int(b.Y)-int(a.Y), BoardHeight)
	case Left:
		if a.Y != b.Y {
			return -1
		}
		return wrap(int(a.X)-int(b.X), BoardWidth)
	case Right:
		if a.Y != b.Y {
			return -1
		}
		return wrap(int(b.X)-int(a.X), BoardWidth)
	}
	return -1
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
