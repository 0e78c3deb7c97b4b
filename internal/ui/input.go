package ui

import (
	"math"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyMap binds keys to commands.
type KeyMap struct {
	Up, Down, Left, Right []ebiten.Key
	Layer                 []ebiten.Key
}

// DefaultKeys is WASD and the arrows, space toggles the layer.
var DefaultKeys = KeyMap{
	Up:    []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
	Down:  []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
	Left:  []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
	Right: []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
	Layer: []ebiten.Key{ebiten.KeySpace},
}

// Command maps one key to a command.
func (m KeyMap) Command(k ebiten.Key) (game.Command, bool) {
	has := func(keys []ebiten.Key) bool {
		for _, x := range keys {
			if x == k {
				return true
			}
		}
		return false
	}
	switch {
	case has(m.Up):
		return game.Turn(game.Up), true
	case has(m.Down):
		return game.Turn(game.Down), true
	case has(m.Left):
		return game.Turn(game.Left), true
	case has(m.Right):
		return game.Turn(game.Right), true
	case has(m.Layer):
		return game.LayerToggle(), true
	}
	return game.Command{}, false
}

// Keyboard queues edge-triggered key presses between ticks. Frames run
// faster than ticks, so Poll is called every frame and the session takes
// one queued command per tick.
type Keyboard struct {
	Keys  KeyMap
	queue game.CommandQueue
	buf   []ebiten.Key
}

func NewKeyboard(keys KeyMap) *Keyboard {
	return &Keyboard{Keys: keys}
}

// Poll reads the keys pressed this frame.
func (k *Keyboard) Poll() {
	k.buf = inpututil.AppendJustPressedKeys(k.buf[:0])
	for _, key := range k.buf {
		k.Press(key)
	}
}

// Press queues the command bound to key, if any.
func (k *Keyboard) Press(key ebiten.Key) {
	if c, ok := k.Keys.Command(key); ok {
		k.queue.Push(c)
	}
}

// NextCommand implements game.CommandSource.
func (k *Keyboard) NextCommand() (game.Command, bool) { return k.queue.NextCommand() }

// ADC model of the node joystick: 12-bit readings centred on the baseline.
const (
	adcBaseline = 2048
	adcSpan     = 2047
)

func toADC(v float64) int {
	v = math.Max(-1, math.Min(1, v))
	return adcBaseline + int(math.Round(v*adcSpan))
}

// Gamepad reads a standard-layout gamepad as the node's analog stick.
// Horizontal is the left stick X axis, vertical its Y axis (down is
// positive), and the bottom face button is the stick press.
type Gamepad struct {
	ID ebiten.GamepadID
}

// FirstGamepad returns the first connected standard gamepad.
func FirstGamepad() (*Gamepad, bool) {
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return &Gamepad{ID: id}, true
		}
	}
	return nil, false
}

func (g *Gamepad) Vertical() int {
	return toADC(ebiten.StandardGamepadAxisValue(g.ID, ebiten.StandardGamepadAxisLeftStickVertical))
}

func (g *Gamepad) Horizontal() int {
	return toADC(ebiten.StandardGamepadAxisValue(g.ID, ebiten.StandardGamepadAxisLeftStickHorizontal))
}

func (g *Gamepad) VerticalBaseline() int   { return adcBaseline }
func (g *Gamepad) HorizontalBaseline() int { return adcBaseline }

func (g *Gamepad) IsDepressed() bool {
	return ebiten.IsStandardGamepadButtonPressed(g.ID, ebiten.StandardGamepadButtonRightBottom)
}

// multiSource merges sources; the first to yield a command wins the tick.
type multiSource []game.CommandSource

func (m multiSource) NextCommand() (game.Command, bool) {
	for _, s := range m {
		if s == nil {
			continue
		}
		if c, ok := s.NextCommand(); ok {
			return c, true
		}
	}
	return game.Command{}, false
}

// padSource attaches to the first gamepad once one shows up. Gamepads are
// only reported once the ebiten loop runs.
type padSource struct {
	threshold int
	js        *game.JoystickSource
}

func (p *padSource) NextCommand() (game.Command, bool) {
	if p.js == nil {
		gp, ok := FirstGamepad()
		if !ok {
			return game.Command{}, false
		}
		p.js = game.NewJoystickSource(gp, p.threshold)
	}
	return p.js.NextCommand()
}

// LocalInput is the keyboard plus the first gamepad to be connected.
func LocalInput(kb *Keyboard, threshold int) game.CommandSource {
	return multiSource{kb, &padSource{threshold: threshold}}
}
