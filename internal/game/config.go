package game

import (
	"errors"
	"fmt"
)

// MaxActors is the number of snakes a session can hold.
const MaxActors = 3

// Tick rates used by the node firmware: host displays run at 60, client
// displays at 24.
const (
	FastTicksPerSecond = 60
	SlowTicksPerSecond = 24
	maxTicksPerSecond  = 240
)

// DefaultStartLength is how many ticks every snake grows before its tail moves.
const DefaultStartLength = 20

// MaxStartLength keeps a straight body shorter than one lap of the board, so
// it can never wrap onto itself.
const MaxStartLength = min(BoardWidth, BoardHeight) - 1

var ErrInvalidConfig = errors.New("invalid config")

// Config holds the tunables of a session.
type Config struct {
	TicksPerSecond    int
	StartLength       int
	JoystickThreshold int
	VisibleLayer      Layer // only cells on this layer are sent to the renderer
	Authoritative     bool  // run collision detection locally
	Verbose           bool  // per-tick move entries in the SimLog
}

// DefaultConfig is the host configuration.
func DefaultConfig() Config {
	return Config{
		TicksPerSecond:    FastTicksPerSecond,
		StartLength:       DefaultStartLength,
		JoystickThreshold: DefaultJoystickThreshold,
		VisibleLayer:      LayerLow,
		Authoritative:     true,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	if c.TicksPerSecond < 1 || c.TicksPerSecond > maxTicksPerSecond {
		return fmt.Errorf("%w: ticks per second %d outside 1..%d", ErrInvalidConfig, c.TicksPerSecond, maxTicksPerSecond)
	}
	if c.StartLength < 0 || c.StartLength > MaxStartLength {
		return fmt.Errorf("%w: start length %d outside 0..%d", ErrInvalidConfig, c.StartLength, MaxStartLength)
	}
	if c.JoystickThreshold < 0 {
		return fmt.Errorf("%w: joystick threshold %d", ErrInvalidConfig, c.JoystickThreshold)
	}
	if c.VisibleLayer > LayerHigh {
		return fmt.Errorf("%w: visible layer %d", ErrInvalidConfig, c.VisibleLayer)
	}
	return nil
}

// ActorSpec is where and how a snake starts.
type ActorSpec struct {
	Start Position
	Dir   Direction
	Color Color
}

// DefaultActors are the three start slots shared by every node.
func DefaultActors() []ActorSpec {
	return []ActorSpec{
		{Start: Position{X: 20, Y: 20}, Dir: Down, Color: 0xFF00},
		{Start: Position{X: 20, Y: 100}, Dir: Right, Color: 0x0FF0},
		{Start: Position{X: 100, Y: 108}, Dir: Up, Color: 0x00FF},
	}
}
