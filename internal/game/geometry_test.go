package game

import "testing"

func TestPosition_StepWraps(t *testing.T) {
	cases := []struct {
		from Position
		dir  Direction
		want Position
	}{
		{Position{0, 0}, Up, Position{0, BoardHeight - 1}},
		{Position{0, 0}, Left, Position{BoardWidth - 1, 0}},
		{Position{BoardWidth - 1, BoardHeight - 1}, Right, Position{0, BoardHeight - 1}},
		{Position{BoardWidth - 1, BoardHeight - 1}, Down, Position{BoardWidth - 1, 0}},
		{Position{5, 5}, Down, Position{5, 6}},
		{Position{5, 5}, Right, Position{6, 5}},
	}
	for _, c := range cases {
		if got := c.from.Step(c.dir); got != c.want {
			t.Errorf("%s.Step(%s) = %s, want %s", c.from, c.dir, got, c.want)
		}
	}
}

func TestPosition_FullLapReturnsHome(t *testing.T) {
	p := Position{7, 9}
	q := p
	for i := 0; i < BoardWidth; i++ {
		q = q.Step(Right)
	}
	if q != p {
		t.Fatalf("after %d steps right got %s, want %s", BoardWidth, q, p)
	}
	for i := 0; i < BoardHeight; i++ {
		q = q.Step(Up)
	}
	if q != p {
		t.Fatalf("after %d steps up got %s, want %s", BoardHeight, q, p)
	}
}

func TestDirection_Opposite(t *testing.T) {
	pairs := map[Direction]Direction{Up: Down, Down: Up, Left: Right, Right: Left}
	for d, o := range pairs {
		if d.Opposite() != o {
			t.Errorf("%s.Opposite() = %s, want %s", d, d.Opposite(), o)
		}
		if !d.IsOpposite(o) {
			t.Errorf("%s.IsOpposite(%s) = false", d, o)
		}
	}
	if Up.IsOpposite(Left) {
		t.Error("up and left are not opposites")
	}
	if Direction(4).Valid() {
		t.Error("direction 4 should be invalid")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(-1, -1); got != (Position{BoardWidth - 1, BoardHeight - 1}) {
		t.Errorf("Normalize(-1,-1) = %s", got)
	}
	if got := Normalize(BoardWidth, BoardHeight); got != (Position{0, 0}) {
		t.Errorf("Normalize(w,h) = %s", got)
	}
	if got := Normalize(3*BoardWidth+4, -2*BoardHeight+6); got != (Position{4, 6}) {
		t.Errorf("Normalize(far) = %s", got)
	}
}

func TestDistanceAlong(t *testing.T) {
	if n := distanceAlong(Position{5, 158}, Position{5, 2}, Down); n != 4 {
		t.Errorf("down across seam = %d, want 4", n)
	}
	if n := distanceAlong(Position{5, 2}, Position{5, 158}, Up); n != 4 {
		t.Errorf("up across seam = %d, want 4", n)
	}
	if n := distanceAlong(Position{126, 3}, Position{1, 3}, Right); n != 3 {
		t.Errorf("right across seam = %d, want 3", n)
	}
	if n := distanceAlong(Position{5, 5}, Position{6, 5}, Down); n != -1 {
		t.Errorf("off-column = %d, want -1", n)
	}
	if n := distanceAlong(Position{5, 5}, Position{5, 5}, Left); n != 0 {
		t.Errorf("same cell = %d, want 0", n)
	}
}

func TestLayer_Flip(t *testing.T) {
	if LayerLow.Flip() != LayerHigh || LayerHigh.Flip() != LayerLow {
		t.Fatal("Flip should swap the two layers")
	}
}
