package game

import "testing"

type fakeStick struct {
	v, h    int
	pressed bool
}

func (f *fakeStick) Vertical() int { return f.v }
func (f *fakeStick) Horizontal() int { return f.h }
func (f *fakeStick) VerticalBaseline() int { return 2048 }
func (f *fakeStick) HorizontalBaseline() int { return 2048 }
func (f *fakeStick) IsDepressed() bool { return f.pressed }

func TestJoystickSource_Directions(t *testing.T) {
	cases := []struct {
		name string
		v, h int
		want Command
		ok   bool
	}{
		{"rest", 2048, 2048, Command{}, false},
		{"at threshold", 2048 + 450, 2048, Command{}, false},
		{"right", 2048, 2048 + 500, Turn(Right), true},
		{"left", 2048, 2048 - 500, Turn(Left), true},
		{"down", 2048 + 500, 2048, Turn(Down), true},
		{"up", 2048 - 500, 2048, Turn(Up), true},
		{"horizontal dominates", 2048 + 500, 2048 - 600, Turn(Left), true},
		{"tie goes vertical", 2048 + 500, 2048 + 500, Turn(Down), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := NewJoystickSource(&fakeStick{v: c.v, h: c.h}, 0)
			got, ok := src.NextCommand()
			if ok != c.ok || got != c.want {
				t.Fatalf("got %v %v, want %v %v", got, ok, c.want, c.ok)
			}
		})
	}
}

func TestJoystickSource_ButtonEdgeTriggered(t *testing.T) {
	js := &fakeStick{v: 2048, h: 2048}
	src := NewJoystickSource(js, DefaultJoystickThreshold)

	js.pressed = true
	if c, ok := src.NextCommand(); !ok || c.Kind != CmdLayer {
		t.Fatalf("press = %v %v, want layer toggle", c, ok)
	}
	if _, ok := src.NextCommand(); ok {
		t.Fatal("held button must not toggle again")
	}
	js.pressed = false
	if _, ok := src.NextCommand(); ok {
		t.Fatal("release should not produce a command")
	}
	js.pressed = true
	if c, ok := src.NextCommand(); !ok || c.Kind != CmdLayer {
		t.Fatalf("second press = %v %v", c, ok)
	}
}

func TestJoystickSource_DirectionBeatsButton(t *testing.T) {
	js := &fakeStick{v: 2048, h: 2048 + 900, pressed: true}
	src := NewJoystickSource(js, 0)
	if c, _ := src.NextCommand(); c != Turn(Right) {
		t.Fatalf("got %v, want turn right", c)
	}
}
